package main

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/teatak/treedec/decoder"
	"github.com/teatak/treedec/grammar"
	"github.com/teatak/treedec/kbest"
	"github.com/teatak/treedec/tree"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run an HTTP translation service",
	RunE:  runServe,
}

var flagListen string

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", ":8080", "Listen address")
	rootCmd.AddCommand(serveCmd)
}

var (
	decodeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "treedec_decodes_total",
		Help: "Decoded sentences by outcome.",
	}, []string{"outcome"})
	decodeSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "treedec_decode_seconds",
		Help:    "Wall time per sentence decode.",
		Buckets: prometheus.DefBuckets,
	})
)

type translateRequest struct {
	Tree string `json:"tree" binding:"required"`
}

type translation struct {
	Text      string    `json:"text"`
	Score     float64   `json:"score"`
	Features  []float64 `json:"features"`
	Alignment string    `json:"alignment,omitempty"`
	Tree      string    `json:"tree,omitempty"`
}

type translateResponse struct {
	ID           string        `json:"id"`
	Translations []translation `json:"translations"`
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, tables, err := loadSetup()
	if err != nil {
		return err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/translate", func(c *gin.Context) {
		handleTranslate(c, cfg, tables)
	})

	slog.Info("serving", "addr", flagListen, "tables", len(tables))
	return router.Run(flagListen)
}

func handleTranslate(c *gin.Context, cfg decoder.Config, tables []*grammar.Table) {
	id := uuid.NewString()
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"id": id, "error": err.Error()})
		return
	}

	start := time.Now()
	src, err := tree.Parse(req.Tree)
	if err != nil {
		decodeTotal.WithLabelValues("bad_input").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"id": id, "error": err.Error()})
		return
	}
	m := decoder.NewManager(cfg, nil, tables, src)
	if err := m.Decode(); err != nil {
		decodeTotal.WithLabelValues("error").Inc()
		slog.Error("decode failed", "id", id, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"id": id, "error": err.Error()})
		return
	}
	decodeSeconds.Observe(time.Since(start).Seconds())

	list := kbest.ExtractKBest(m, cfg.NBestSize, cfg.DistinctNBest)
	resp := translateResponse{ID: id}
	for _, d := range list {
		phrase := kbest.OutputPhrase(d)
		t := translation{
			Text:     strings.Join(phrase[1:len(phrase)-1], " "),
			Score:    d.Score,
			Features: kbest.ScoreBreakdown(d),
		}
		if cfg.IncludeAlignment {
			points, err := kbest.Alignments(d)
			if err != nil {
				decodeTotal.WithLabelValues("error").Inc()
				c.JSON(http.StatusInternalServerError, gin.H{"id": id, "error": err.Error()})
				return
			}
			t.Alignment = kbest.FormatAlignments(points)
		}
		if cfg.IncludeTree {
			t.Tree = kbest.TreeString(d)
		}
		resp.Translations = append(resp.Translations, t)
	}
	decodeTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, resp)
}
