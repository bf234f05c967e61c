package server

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/matthieukhl/naturemagic/internal/cms"
)

const maxRestoreBytes = 10 << 20

type updateContentRequest struct {
	Field string  `json:"field"`
	Lang  string  `json:"lang"`
	Value string  `json:"value"`
	Image *string `json:"image"`
}

type importContentRequest struct {
	Items []cms.ContentItem `json:"items"`
	URLs  []string          `json:"urls"`
}

type batchEditRequest struct {
	IDs   []string         `json:"ids" binding:"required"`
	Patch cms.ProductPatch `json:"patch"`
}

func (s *Server) category(c *gin.Context) (cms.Category, bool) {
	cat, err := cms.ParseCategory(c.Param("category"))
	if err != nil {
		s.respondError(c, err)
		return "", false
	}
	return cat, true
}

func confirmed(c *gin.Context) bool {
	ok, _ := strconv.ParseBool(c.Query("confirm"))
	return ok
}

func (s *Server) listContent(c *gin.Context) {
	cat, ok := s.category(c)
	if !ok {
		return
	}
	items, err := s.deps.Content.Load(c.Request.Context(), cat)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": cat, "items": items})
}

// updateContent edits one localized field, or replaces the images when image is set.
func (s *Server) updateContent(c *gin.Context) {
	cat, ok := s.category(c)
	if !ok {
		return
	}
	var req updateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}

	var (
		item cms.ContentItem
		err  error
	)
	if req.Image != nil {
		item, err = s.deps.Content.SetImage(c.Request.Context(), cat, c.Param("id"), *req.Image)
	} else {
		item, err = s.deps.Content.UpdateField(c.Request.Context(), cat, c.Param("id"), req.Field, req.Lang, req.Value)
	}
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// importContent merges posted items and, when an importer is configured, items
// scraped from the listed page URLs. Pages that fail are reported, not fatal.
func (s *Server) importContent(c *gin.Context) {
	cat, ok := s.category(c)
	if !ok {
		return
	}
	var req importContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}

	incoming := req.Items
	var failures string
	if len(req.URLs) > 0 && s.deps.Importer != nil {
		scraped, err := s.deps.Importer.FetchAll(c.Request.Context(), cat, req.URLs)
		if err != nil {
			s.logger.Warn("page import incomplete", zap.Error(err))
			failures = err.Error()
		}
		incoming = append(incoming, scraped...)
	}

	items, err := s.deps.Content.Import(c.Request.Context(), cat, incoming)
	if err != nil {
		s.respondError(c, err)
		return
	}
	resp := gin.H{"imported": len(incoming), "items": items}
	if failures != "" {
		resp["failures"] = failures
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) backupContent(c *gin.Context) {
	cat, ok := s.category(c)
	if !ok {
		return
	}
	backup, err := s.deps.Content.Backup(c.Request.Context(), cat)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+backup.Filename+`"`)
	c.Data(http.StatusOK, "application/json", backup.Data)
}

func (s *Server) restoreContent(c *gin.Context) {
	cat, ok := s.category(c)
	if !ok {
		return
	}
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRestoreBytes))
	if err != nil {
		s.badRequest(c, err)
		return
	}

	items, err := s.deps.Content.Restore(c.Request.Context(), cat, data, confirmed(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": cat, "restored": len(items)})
}

func (s *Server) listProducts(c *gin.Context) {
	products, err := s.deps.Products.List(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// getProduct returns one product, or its whole variant group with ?group=true.
func (s *Server) getProduct(c *gin.Context) {
	if group, _ := strconv.ParseBool(c.Query("group")); group {
		products, err := s.deps.Products.Group(c.Request.Context(), c.Param("id"))
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
		return
	}

	p, err := s.deps.Products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) saveProductGroup(c *gin.Context) {
	var variants []cms.Product
	if err := c.ShouldBindJSON(&variants); err != nil {
		s.badRequest(c, err)
		return
	}
	saved, err := s.deps.Products.SaveGroup(c.Request.Context(), variants)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": saved})
}

func (s *Server) deleteProduct(c *gin.Context) {
	if err := s.deps.Products.Delete(c.Request.Context(), c.Param("id"), confirmed(c)); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) batchEditProducts(c *gin.Context) {
	var req batchEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	updated, err := s.deps.Products.BatchEdit(c.Request.Context(), req.IDs, req.Patch)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": updated})
}

func (s *Server) rederiveProducts(c *gin.Context) {
	products, err := s.deps.Products.Rederive(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}
