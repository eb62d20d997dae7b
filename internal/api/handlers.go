package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"antifraud/internal/cache"
	"antifraud/internal/formatter"
	"antifraud/internal/models"
)

// articleSummary is an article as listed, with its preview.
type articleSummary struct {
	models.Article
	Preview string `json:"preview"`
}

// articleDetail adds the summary rendered as HTML paragraphs.
type articleDetail struct {
	articleSummary
	SummaryHTML string `json:"summaryHtml"`
}

type listResponse struct {
	Articles []articleSummary `json:"articles"`
	Total    int              `json:"total"`
	Status   cache.Status     `json:"status,omitempty"`
	Error    string           `json:"error,omitempty"`
}

func summarize(articles []models.Article) []articleSummary {
	out := make([]articleSummary, 0, len(articles))
	for _, a := range articles {
		out = append(out, articleSummary{Article: a, Preview: a.Preview()})
	}

	return out
}

func (s *Server) listArticles(c *gin.Context) {
	res := s.articles.Load(c.Request.Context())

	resp := listResponse{
		Articles: summarize(res.Articles),
		Total:    len(res.Articles),
		Status:   res.Status,
	}

	if res.Err != nil {
		resp.Error = "upstream unavailable"
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) getArticle(c *gin.Context) {
	article, ok := s.articles.GetArticle(c.Request.Context(), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})

		return
	}

	c.JSON(http.StatusOK, articleDetail{
		articleSummary: articleSummary{Article: article, Preview: article.Preview()},
		SummaryHTML:    formatter.FormatArticleText(article.Summary),
	})
}

func (s *Server) searchArticles(c *gin.Context) {
	results := s.articles.Search(c.Request.Context(), c.Query("q"))

	c.JSON(http.StatusOK, listResponse{
		Articles: summarize(results),
		Total:    len(results),
	})
}

func (s *Server) invalidateCache(c *gin.Context) {
	s.articles.Invalidate(c.Request.Context())
	s.logger.Info("Article cache invalidated", "remote", c.ClientIP())

	c.JSON(http.StatusOK, gin.H{"message": "cache invalidated"})
}

func (s *Server) health(c *gin.Context) {
	status := "ok"
	code := http.StatusOK

	for _, present := range s.presence {
		if !present {
			status = "misconfigured"
			code = http.StatusServiceUnavailable

			break
		}
	}

	c.JSON(code, gin.H{
		"status": status,
		"config": s.presence,
		"cache": gin.H{
			"backend":     s.articles.Backend(),
			"ttl_seconds": int(s.articles.TTL().Seconds()),
		},
	})
}
