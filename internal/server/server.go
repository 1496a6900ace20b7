package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mosdac-ai/orbit/internal/core"
	"github.com/mosdac-ai/orbit/internal/core/model"
)

// Server exposes the knowledge graph over HTTP: fact search, statistics and
// community maintenance.
type Server struct {
	Graph   *core.Graph
	GroupID string
}

func NewServer(g *core.Graph, groupID string) *Server {
	return &Server{Graph: g, GroupID: groupID}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.POST("/search", s.Search)
	r.GET("/stats", s.Stats)
	r.POST("/communities", s.BuildCommunities)
	r.POST("/messages", s.AddMessages)

	return r
}

type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

func (s *Server) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	facts, err := s.Graph.Search(c.Request.Context(), s.GroupID, req.Query, req.Limit)
	if err != nil {
		log.Printf("Failed to search: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"facts": facts})
}

func (s *Server) Stats(c *gin.Context) {
	nodes, rels, err := s.Graph.Stats(c.Request.Context())
	if err != nil {
		log.Printf("Failed to fetch stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch statistics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"nodes": nodes, "relationships": rels})
}

func (s *Server) BuildCommunities(c *gin.Context) {
	count, err := s.Graph.BuildCommunities(c.Request.Context(), s.GroupID)
	if err != nil {
		log.Printf("Failed to build communities: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build communities"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"communities": count})
}

type AddMessageRequest struct {
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// AddMessages ingests conversational snippets as message episodes, the same
// pipeline the batch loader uses for scraped records.
func (s *Server) AddMessages(c *gin.Context) {
	var req AddMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	for _, msg := range req.Messages {
		ep := model.Episode{
			Name:              "message",
			Body:              msg.Content,
			Source:            model.SourceMessage,
			SourceDescription: "user message",
			GroupID:           s.GroupID,
		}
		if err := s.Graph.AddEpisode(c.Request.Context(), ep); err != nil {
			log.Printf("Failed to add episode: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
