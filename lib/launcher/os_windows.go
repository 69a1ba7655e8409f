package launcher

import "os/exec"

func killGroup(int) {}

func osSetupCmd(*exec.Cmd) {}
