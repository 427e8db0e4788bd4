// Package handler 提供 HTTP 请求处理器
package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"kitab-ai-api/internal/application/book"
	"kitab-ai-api/internal/domain/entity"
	"kitab-ai-api/internal/interfaces/http/dto"
)

// BookHandler 书稿工作台处理器
type BookHandler struct {
	studio *book.Studio
}

// NewBookHandler 创建书稿处理器
func NewBookHandler(studio *book.Studio) *BookHandler {
	return &BookHandler{studio: studio}
}

// CreateSession 新建会话
// @Summary 新建书稿会话
// @Tags Sessions
// @Produce json
// @Success 201 {object} dto.Response[dto.SessionResponse]
// @Router /v1/sessions [post]
func (h *BookHandler) CreateSession(c *gin.Context) {
	m, err := h.studio.CreateSession(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to create session")
		return
	}
	dto.Created(c, dto.ToSessionResponse(m))
}

// GetSession 会话状态与书稿
// @Summary 获取会话
// @Tags Sessions
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 200 {object} dto.Response[dto.SessionResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid} [get]
func (h *BookHandler) GetSession(c *gin.Context) {
	m, err := h.studio.Get(c.Request.Context(), c.Param("sid"))
	if err != nil {
		respondError(c, err, "failed to get session")
		return
	}
	dto.Success(c, dto.ToSessionResponse(m))
}

// DeleteSession 结束会话
// @Summary 删除会话
// @Tags Sessions
// @Param sid path string true "会话 ID"
// @Success 204
// @Router /v1/sessions/{sid} [delete]
func (h *BookHandler) DeleteSession(c *gin.Context) {
	if err := h.studio.DeleteSession(c.Request.Context(), c.Param("sid")); err != nil {
		respondError(c, err, "failed to delete session")
		return
	}
	dto.NoContent(c)
}

// Generate 同步生成书稿
// @Summary 生成书稿
// @Description 请求会阻塞到模型返回；同一会话生成中再次提交返回 409
// @Tags Sessions
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param body body dto.GenerateBookRequest true "生成参数"
// @Success 200 {object} dto.Response[dto.SessionResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/generate [post]
func (h *BookHandler) Generate(c *gin.Context) {
	var req dto.GenerateBookRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := h.studio.Generate(c.Request.Context(), c.Param("sid"), req.ToParams())
	if err != nil {
		respondError(c, err, "book generation failed")
		return
	}
	dto.Success(c, dto.ToSessionResponse(m))
}

// Reset 回到空白输入态
// @Summary 重置会话
// @Tags Sessions
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 200 {object} dto.Response[dto.SessionResponse]
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/reset [post]
func (h *BookHandler) Reset(c *gin.Context) {
	m, err := h.studio.Reset(c.Request.Context(), c.Param("sid"))
	if err != nil {
		respondError(c, err, "failed to reset session")
		return
	}
	dto.Success(c, dto.ToSessionResponse(m))
}

// Document 排版块树
// @Summary 获取文档块树
// @Tags Sessions
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 200 {object} dto.Response[document.Document]
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/document [get]
func (h *BookHandler) Document(c *gin.Context) {
	doc, err := h.studio.Document(c.Request.Context(), c.Param("sid"))
	if err != nil {
		respondError(c, err, "failed to assemble document")
		return
	}
	dto.Success(c, doc)
}

// Export 下载 DOCX
// @Summary 导出 DOCX
// @Tags Sessions
// @Produce application/vnd.openxmlformats-officedocument.wordprocessingml.document
// @Param sid path string true "会话 ID"
// @Success 200 {file} file
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/export [get]
func (h *BookHandler) Export(c *gin.Context) {
	res, err := h.studio.Export(c.Request.Context(), c.Param("sid"))
	if err != nil {
		respondError(c, err, "document export failed")
		return
	}
	writeAttachment(c, res.Filename, res.ContentType, res.Data)
}

// ExportBook 无状态导出：请求体为书稿 JSON
// @Summary 导出调用方提供的书稿
// @Tags Books
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.wordprocessingml.document
// @Param body body entity.Book true "书稿"
// @Success 200 {file} file
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/books/export [post]
func (h *BookHandler) ExportBook(c *gin.Context) {
	var b entity.Book
	if !bindJSON(c, &b) {
		return
	}
	res, err := h.studio.ExportBook(c.Request.Context(), &b)
	if err != nil {
		respondError(c, err, "document export failed")
		return
	}
	writeAttachment(c, res.Filename, res.ContentType, res.Data)
}

func writeAttachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", contentDisposition(filename))
	c.Data(http.StatusOK, contentType, data)
}

// contentDisposition 非 ASCII 书名同时给出 RFC 5987 的 filename*
func contentDisposition(filename string) string {
	ascii := strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, filename)
	if ascii == filename {
		return `attachment; filename="` + filename + `"`
	}
	return `attachment; filename="` + ascii + `"; filename*=UTF-8''` + url.PathEscape(filename)
}
