package respond

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusOK, payload)
}

// Page executes tmpl with data as a full HTML response.
func Page(c *gin.Context, status int, tmpl *template.Template, data interface{}) {
	c.Render(status, render.HTML{Template: tmpl, Data: data})
}

// WantsJSON reports whether the client prefers JSON over an HTML page.
func WantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}
