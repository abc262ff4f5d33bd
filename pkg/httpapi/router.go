// Package httpapi exposes the checker over HTTP for build services and CI.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/praetorian-inc/adocref/pkg/checker"
	"github.com/praetorian-inc/adocref/pkg/serve"
	"github.com/praetorian-inc/adocref/pkg/types"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("adocref.httpapi")

// NewRouter returns the HTTP handler for core.
//
//	GET  /healthz
//	GET  /v1/directives
//	POST /v1/check        body: {"content", "path", "base_dir"}
//	POST /v1/check/batch  body: {"documents": [...]}
func NewRouter(core *checker.Core) *gin.Engine {
	r := gin.New()
	r.Use(requestLogger())
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	v1 := r.Group("/v1")
	v1.GET("/directives", func(c *gin.Context) {
		c.JSON(http.StatusOK, core.Scanner().Directives())
	})
	v1.POST("/check", func(c *gin.Context) {
		var p serve.CheckPayload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := core.Check(p.Document())
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	})
	v1.POST("/check/batch", func(c *gin.Context) {
		var p serve.CheckBatchPayload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		docs := make([]*types.Document, 0, len(p.Documents))
		for _, d := range p.Documents {
			docs = append(docs, d.Document())
		}
		result, err := core.CheckBatch(docs)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	})

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Infof("%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Microsecond))
	}
}
