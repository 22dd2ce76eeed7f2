package handler

import (
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Aashish23092/taxease-analyzer/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

const acceptedExtensions = ".csv,.xlsx,.pdf,.png,.jpg,.jpeg,.gif,.bmp,.tif,.tiff,.webp,.heic,.heif"

var pageTemplate = template.Must(template.New("").Funcs(template.FuncMap{
	"money":    formatMoney,
	"location": formatLocation,
	"inc":      func(i int) int { return i + 1 },
}).ParseFS(templateFS, "templates/*.html"))

type pageData struct {
	Accept    string
	Threshold decimal.Decimal
	Result    *dto.AnalysisResponse
	Error     string
}

type PageHandler struct {
	api *AnalyzeHandler
}

func NewPageHandler(api *AnalyzeHandler) *PageHandler {
	return &PageHandler{api: api}
}

// Index handles GET /
func (h *PageHandler) Index(c *gin.Context) {
	h.render(c, http.StatusOK, pageData{})
}

// Upload handles POST /upload and renders the result table.
func (h *PageHandler) Upload(c *gin.Context) {
	doc, status, err := h.api.readUpload(c)
	if err != nil {
		h.api.logger.Warn("upload rejected", "status", status, "error", err)
		h.render(c, status, pageData{Error: uploadMessage(status) + "."})
		return
	}

	resp := h.api.analyzer.Analyze(c.Request.Context(), *doc)
	resp.ProcessedAt = time.Now().UTC().Format(time.RFC3339)

	h.render(c, statusCode(resp.Status), pageData{Result: resp})
}

func (h *PageHandler) render(c *gin.Context, status int, data pageData) {
	data.Accept = acceptedExtensions
	data.Threshold = h.api.analyzer.Threshold()
	c.Render(status, render.HTML{Template: pageTemplate, Name: "index", Data: data})
}

// formatMoney renders 12500 as $12,500.00 and -1234.5 as -$1,234.50.
func formatMoney(d decimal.Decimal) string {
	places := int32(2)
	if e := -d.Exponent(); e > places {
		places = e
	}
	s := d.Abs().StringFixed(places)

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	return b.String()
}

func formatLocation(loc *dto.SourceLocation) string {
	if loc == nil {
		return "-"
	}
	switch loc.Kind {
	case dto.LocationQR:
		return "QR line " + strconv.Itoa(loc.Index)
	default:
		return string(loc.Kind) + " " + strconv.Itoa(loc.Index)
	}
}
