package routes

import (
	"testing"

	"stagelink/handlers"

	"github.com/gin-gonic/gin"
)

func TestMessageReadIsPatch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterMessagingRoutes(r, &handlers.HandlerBundle{})

	methods := map[string]bool{}
	for _, route := range r.Routes() {
		if route.Path == "/api/messages/:id/read" {
			methods[route.Method] = true
		}
	}
	if !methods["PATCH"] {
		t.Error("message read-receipt route not registered as PATCH")
	}
	if methods["PUT"] {
		t.Error("message read-receipt route registered as PUT")
	}
}
