// Package fixture serves the pages the suite can run against without network access.
package fixture

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CalculatorPath is where the calculator replica is served
const CalculatorPath = "/angularJs-protractor/SimpleCalculator/"

// StallPath serves a page that never finishes loading, until the client goes away
const StallPath = "/stall"

// Router of the fixture server
func Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	calculator := func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(CalculatorHTML))
	}

	r.GET(CalculatorPath, calculator)
	r.GET(StallPath, func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.Status(http.StatusOK)
		_, _ = c.Writer.WriteString("<html><body>loading")
		c.Writer.Flush()
		<-c.Request.Context().Done()
	})
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, CalculatorPath)
	})

	return r
}

// Server is a running fixture server
type Server struct {
	// URL of the server, such as "http://127.0.0.1:34567"
	URL string

	srv *http.Server
}

// Serve on addr, if addr is empty a random local port will be used.
func Serve(addr string) (*Server, error) {
	if addr == "" {
		addr = "127.0.0.1:0"
	}

	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	s := &Server{
		URL: "http://" + l.Addr().String(),
		srv: &http.Server{Handler: Router()},
	}

	go func() { _ = s.srv.Serve(l) }()

	return s, nil
}

// CalculatorURL of the replica, delay postpones each render of the result
func (s *Server) CalculatorURL(delay time.Duration) string {
	u := s.URL + CalculatorPath
	if delay > 0 {
		u += fmt.Sprintf("?delay=%d", delay.Milliseconds())
	}
	return u
}

// StallURL of the page that never finishes loading
func (s *Server) StallURL() string {
	return s.URL + StallPath
}

// Close the server, open connections such as the stalled ones are dropped
func (s *Server) Close() error {
	return s.srv.Close()
}
