package endpoint

import (
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
)

// Metrics reports Go runtime statistics in bytes. Request and transcription
// counters are exported through the OTLP meter instead.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		c.JSON(http.StatusOK, gin.H{
			"goroutines": runtime.NumGoroutine(),
			"heap": gin.H{
				"alloc_bytes":    ms.HeapAlloc,
				"objects":        ms.HeapObjects,
				"sys_bytes":      ms.HeapSys,
				"released_bytes": ms.HeapReleased,
			},
			"gc": gin.H{
				"runs":           ms.NumGC,
				"pause_total_ns": ms.PauseTotalNs,
			},
		})
	}
}
