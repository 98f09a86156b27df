package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"coolpc/internal/catalog"
)

// Handler serves catalog queries from the current snapshot in Store.
type Handler struct {
	Store *catalog.Store
}

func NewHandler(store *catalog.Store) *Handler {
	return &Handler{Store: store}
}

type searchParams struct {
	Keyword  string `form:"keyword" binding:"required"`
	Category string `form:"category"`
	MinPrice int    `form:"min_price" binding:"min=0"`
	MaxPrice int    `form:"max_price" binding:"min=0"`
	Limit    int    `form:"limit"`
}

type gpuParams struct {
	Chipset string `form:"chipset"`
	Memory  int    `form:"memory" binding:"min=0"`
	SortBy  string `form:"sort_by" binding:"omitempty,oneof=price_asc price_desc"`
	Limit   int    `form:"limit"`
}

type cpuParams struct {
	Socket string `form:"socket"`
	Cores  int    `form:"cores" binding:"min=0"`
	SortBy string `form:"sort_by" binding:"omitempty,oneof=price_asc price_desc"`
	Limit  int    `form:"limit"`
}

type ramParams struct {
	Type      string `form:"type"`
	Capacity  int    `form:"capacity" binding:"min=0"`
	Frequency int    `form:"frequency" binding:"min=0"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=price_asc price_desc"`
	Limit     int    `form:"limit"`
}

type ssdParams struct {
	Interface string `form:"interface"`
	Capacity  int    `form:"capacity" binding:"min=0"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=price_asc price_desc"`
	Limit     int    `form:"limit"`
}

type motherboardParams struct {
	Socket     string `form:"socket"`
	Chipset    string `form:"chipset"`
	FormFactor string `form:"form_factor"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=price_asc price_desc"`
	Limit      int    `form:"limit"`
}

type caseParams struct {
	FormFactor string `form:"form_factor" binding:"omitempty,oneof=E-ATX ATX mATX ITX"`
	SidePanel  string `form:"side_panel" binding:"omitempty,oneof=全景玻璃 玻璃透側 玻璃開孔面板 雙玻璃透側 四面金屬網孔"`
	HasPSU     *bool  `form:"has_psu"`
	Brand      string `form:"brand"`
	MinPrice   int    `form:"min_price" binding:"min=0"`
	MaxPrice   int    `form:"max_price" binding:"min=0"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=price_asc price_desc"`
	Limit      int    `form:"limit"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"service":    "coolpc-catalog",
		"categories": len(h.Store.Load().Categories()),
	})
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories := h.Store.Load().Categories()
	c.JSON(http.StatusOK, gin.H{
		"total_categories": len(categories),
		"categories":       categories,
	})
}

func (h *Handler) CategoryProducts(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, fmt.Errorf("invalid category id %q", c.Param("id")))
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	subcategory := c.Query("subcategory")

	page, err := h.Store.Load().CategoryProducts(id, subcategory, limit)
	if errors.Is(err, catalog.ErrNotFound) {
		msg := fmt.Sprintf("category %d not found", id)
		if subcategory != "" {
			msg = fmt.Sprintf("subcategory %q not found in category %d", subcategory, id)
		}
		c.JSON(http.StatusNotFound, gin.H{"found": false, "message": msg})
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) SearchProducts(c *gin.Context) {
	var p searchParams
	if err := c.ShouldBindQuery(&p); err != nil {
		badRequest(c, err)
		return
	}
	hits := h.Store.Load().Search(catalog.Query{
		Keyword:  p.Keyword,
		Category: p.Category,
		MinPrice: p.MinPrice,
		MaxPrice: p.MaxPrice,
		Limit:    p.Limit,
	})
	c.JSON(http.StatusOK, gin.H{"total_found": len(hits), "results": hits})
}

func (h *Handler) SearchGPU(c *gin.Context) {
	var p gpuParams
	if err := c.ShouldBindQuery(&p); err != nil {
		badRequest(c, err)
		return
	}
	hits, err := h.Store.Load().SearchGPU(catalog.GPUQuery{Chipset: p.Chipset, MemoryGB: p.Memory, Sort: p.SortBy, Limit: p.Limit})
	if err != nil {
		categoryNotFound(c, "GPU")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"showing": len(hits),
		"filters": gin.H{"chipset": orAny(p.Chipset), "memory": orAnyInt(p.Memory), "sort_by": orNone(p.SortBy)},
		"results": hits,
	})
}

func (h *Handler) SearchCPU(c *gin.Context) {
	var p cpuParams
	if err := c.ShouldBindQuery(&p); err != nil {
		badRequest(c, err)
		return
	}
	hits, err := h.Store.Load().SearchCPU(catalog.CPUQuery{Socket: p.Socket, Cores: p.Cores, Sort: p.SortBy, Limit: p.Limit})
	if err != nil {
		categoryNotFound(c, "CPU")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"showing": len(hits),
		"filters": gin.H{"socket": orAny(p.Socket), "cores": orAnyInt(p.Cores), "sort_by": orNone(p.SortBy)},
		"results": hits,
	})
}

func (h *Handler) SearchRAM(c *gin.Context) {
	var p ramParams
	if err := c.ShouldBindQuery(&p); err != nil {
		badRequest(c, err)
		return
	}
	hits, err := h.Store.Load().SearchRAM(catalog.RAMQuery{
		Type:         p.Type,
		CapacityGB:   p.Capacity,
		FrequencyMHz: p.Frequency,
		Sort:         p.SortBy,
		Limit:        p.Limit,
	})
	if err != nil {
		categoryNotFound(c, "RAM")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"showing": len(hits),
		"filters": gin.H{
			"type":      orAny(p.Type),
			"capacity":  orAnyInt(p.Capacity),
			"frequency": orAnyInt(p.Frequency),
			"sort_by":   orNone(p.SortBy),
		},
		"results": hits,
	})
}

func (h *Handler) SearchSSD(c *gin.Context) {
	var p ssdParams
	if err := c.ShouldBindQuery(&p); err != nil {
		badRequest(c, err)
		return
	}
	hits, err := h.Store.Load().SearchSSD(catalog.SSDQuery{Interface: p.Interface, CapacityGB: p.Capacity, Sort: p.SortBy, Limit: p.Limit})
	if err != nil {
		categoryNotFound(c, "SSD")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"showing": len(hits),
		"filters": gin.H{"interface": orAny(p.Interface), "capacity": orAnyInt(p.Capacity), "sort_by": orNone(p.SortBy)},
		"results": hits,
	})
}

func (h *Handler) SearchMotherboard(c *gin.Context) {
	var p motherboardParams
	if err := c.ShouldBindQuery(&p); err != nil {
		badRequest(c, err)
		return
	}
	hits, err := h.Store.Load().SearchMotherboard(catalog.MotherboardQuery{
		Socket:     p.Socket,
		Chipset:    p.Chipset,
		FormFactor: p.FormFactor,
		Sort:       p.SortBy,
		Limit:      p.Limit,
	})
	if err != nil {
		categoryNotFound(c, "Motherboard")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"showing": len(hits),
		"filters": gin.H{
			"socket":      orAny(p.Socket),
			"chipset":     orAny(p.Chipset),
			"form_factor": orAny(p.FormFactor),
			"sort_by":     orNone(p.SortBy),
		},
		"results": hits,
	})
}

func (h *Handler) SearchCase(c *gin.Context) {
	var p caseParams
	if err := c.ShouldBindQuery(&p); err != nil {
		badRequest(c, err)
		return
	}
	hits, err := h.Store.Load().SearchCase(catalog.CaseQuery{
		FormFactor: p.FormFactor,
		SidePanel:  p.SidePanel,
		HasPSU:     p.HasPSU,
		Brand:      p.Brand,
		MinPrice:   p.MinPrice,
		MaxPrice:   p.MaxPrice,
		Sort:       p.SortBy,
		Limit:      p.Limit,
	})
	if err != nil {
		categoryNotFound(c, "Case")
		return
	}
	var psu any = "any"
	if p.HasPSU != nil {
		psu = *p.HasPSU
	}
	c.JSON(http.StatusOK, gin.H{
		"showing": len(hits),
		"filters": gin.H{
			"form_factor": orAny(p.FormFactor),
			"side_panel":  orAny(p.SidePanel),
			"has_psu":     psu,
			"brand":       orAny(p.Brand),
			"price_range": gin.H{"min": orAnyInt(p.MinPrice), "max": orAnyInt(p.MaxPrice)},
			"sort_by":     orNone(p.SortBy),
		},
		"results": hits,
	})
}

func (h *Handler) ProductByModel(c *gin.Context) {
	name := c.Param("model")
	hit, err := h.Store.Load().ByModel(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"found": false, "message": fmt.Sprintf("product with model %q not found", name)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"found": true, "product": hit})
}

func categoryNotFound(c *gin.Context, name string) {
	c.JSON(http.StatusNotFound, gin.H{"error": name + " category not found", "results": []catalog.Hit{}})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func orAny(s string) string {
	if s == "" {
		return "any"
	}
	return s
}

func orAnyInt(n int) string {
	if n <= 0 {
		return "any"
	}
	return strconv.Itoa(n)
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
