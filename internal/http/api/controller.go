package api

import "github.com/gin-gonic/gin"

// Controller registers endpoints on one mounted gin group. The verb methods
// expect the authenticated user; PUBLIC_* variants do not.
type Controller struct {
	Group *gin.RouterGroup
}

func (c *Controller) GET(path string, h HandlerFuncWithAuth) {
	c.Group.GET(path, ResolveEndpointWithAuth(h))
}

func (c *Controller) POST(path string, h HandlerFuncWithAuth) {
	c.Group.POST(path, ResolveEndpointWithAuth(h))
}

func (c *Controller) PUT(path string, h HandlerFuncWithAuth) {
	c.Group.PUT(path, ResolveEndpointWithAuth(h))
}

func (c *Controller) DELETE(path string, h HandlerFuncWithAuth) {
	c.Group.DELETE(path, ResolveEndpointWithAuth(h))
}

func (c *Controller) PUBLIC_GET(path string, h HandlerFunc, mw ...gin.HandlerFunc) {
	c.Group.GET(path, append(mw, ResolveEndpoint(h))...)
}

func (c *Controller) PUBLIC_POST(path string, h HandlerFunc, mw ...gin.HandlerFunc) {
	c.Group.POST(path, append(mw, ResolveEndpoint(h))...)
}
