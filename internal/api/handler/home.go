package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const homePage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Shifts API</title></head>
<body>
<h1>Shifts API</h1>
<p>Keep track of your shifts: where you worked, when, what you billed and whether you have been paid.</p>
<p>Sign up at <code>POST /users/signup</code>, then send the returned token as <code>Authorization: Bearer &lt;token&gt;</code>.</p>
<p>API documentation: <a href="/swagger/index.html">/swagger/index.html</a></p>
</body>
</html>
`

// Home renders the landing page.
func Home(c echo.Context) error {
	return c.HTML(http.StatusOK, homePage)
}
