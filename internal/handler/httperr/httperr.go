package httperr

import (
	"github.com/gin-gonic/gin"
)

type Message struct {
	Message string `json:"message"`
}

// Response is the single error envelope of the API. Errors carries the
// per-line failures of a rejected cart; Detail carries anything else.
type Response struct {
	Status int     `json:"-"`
	Error  Message `json:"error"`
	Detail any     `json:"detail,omitempty"`
	Errors any     `json:"errors,omitempty"`
}

func New(status int, msg string) Response {
	return Response{Status: status, Error: Message{Message: msg}}
}

// AbortWithError keeps err on the gin context for the error middleware to log.
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	resp := New(status, msg)
	resp.Detail = detail
	abort(c, err, resp)
}

// AbortWithErrors answers with an itemized list, one entry per failing cart line.
func AbortWithErrors(c *gin.Context, status int, err error, msg string, items any) {
	resp := New(status, msg)
	resp.Errors = items
	abort(c, err, resp)
}

func abort(c *gin.Context, err error, resp Response) {
	if err == nil {
		panic("httperr: abort without an error")
	}
	_ = c.Error(&gin.Error{Err: err, Type: gin.ErrorTypePublic, Meta: resp})
	c.AbortWithStatusJSON(resp.Status, resp)
}
