package servertime

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the clock sync endpoint used by desktop clients to
// offset-correct countdowns and report timestamps.
func RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/server-time", func(c *gin.Context) {
		t2 := time.Now().UnixMilli()
		resp := gin.H{
			"t2": t2,
			"t3": time.Now().UnixMilli(),
		}
		// Echo the client send time when provided so the client can
		// compute round-trip delay without local bookkeeping.
		if t1, err := strconv.ParseInt(c.Query("t1"), 10, 64); err == nil {
			resp["t1"] = t1
		}
		c.JSON(200, resp)
	})
}
