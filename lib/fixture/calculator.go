package fixture

// CalculatorHTML is an offline replica of the calculator page under test.
// It keeps the markup the page object relies on: two ng-model inputs, the
// operation select and the result element. The "delay" query param
// postpones each render by that many milliseconds, to exercise the waits.
const CalculatorHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Simple Calculator</title>
</head>
<body>
  <form class="form-inline">
    <input ng-model="a" type="text" class="input-small">
    <select ng-model="operation" class="span1">
      <option value=""></option>
      <option value="+">+</option>
      <option value="-">-</option>
      <option value="*">*</option>
      <option value="/">/</option>
    </select>
    <input ng-model="b" type="text" class="input-small">
  </form>
  <h2 class="result"></h2>
  <script>
    (function () {
      var delay = Number(new URLSearchParams(location.search).get('delay')) || 0
      var a = document.querySelector("input[ng-model='a']")
      var b = document.querySelector("input[ng-model='b']")
      var op = document.querySelector("select[ng-model='operation']")
      var result = document.querySelector('.result')

      function num(v) {
        v = v.trim()
        return /^[-+]?\d+(\.\d+)?$/.test(v) ? Number(v) : null
      }

      function calc(x, o, y) {
        if (x === null || y === null) return null
        switch (o) {
          case '+': return x + y
          case '-': return x - y
          case '*': return x * y
          case '/': return y === 0 ? null : x / y
        }
        return null
      }

      function render() {
        var text = ''
        if (op.value !== '') {
          var x = num(a.value)
          var y = num(b.value)
          text = x + ' ' + op.value + ' ' + y + ' = ' + calc(x, op.value, y)
        }

        if (delay > 0) {
          setTimeout(function () { result.textContent = text }, delay)
        } else {
          result.textContent = text
        }
      }

      [a, b, op].forEach(function (el) {
        el.addEventListener('input', render)
        el.addEventListener('change', render)
      })
    })()
  </script>
</body>
</html>
`
