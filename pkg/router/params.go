package router

import "github.com/shapestone/shape-httpd/pkg/http"

// Param is a path parameter captured by a route pattern.
type Param struct {
	Name  string
	Value string
}

// Params holds captured parameters in pattern order.
type Params []Param

// Get returns the value of the named parameter.
func (ps Params) Get(name string) (string, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

type paramsKey struct{}

// ParamsOf returns the parameters the router attached to req.
func ParamsOf(req *http.Request) Params {
	v, _ := req.Attachment(paramsKey{})
	ps, _ := v.(Params)
	return ps
}

// PathParam returns a single path parameter of req, or "" if absent.
func PathParam(req *http.Request, name string) string {
	v, _ := ParamsOf(req).Get(name)
	return v
}
