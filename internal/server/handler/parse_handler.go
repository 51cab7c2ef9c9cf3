package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/azhengyongqin/redisurl-hub/internal/logger"
	"github.com/azhengyongqin/redisurl-hub/internal/metrics"
	"github.com/azhengyongqin/redisurl-hub/internal/middleware"
	"github.com/azhengyongqin/redisurl-hub/internal/redisclient"
	"github.com/azhengyongqin/redisurl-hub/internal/server/dto"
	"github.com/azhengyongqin/redisurl-hub/redisurl"
)

// errURLTooLong 连接串超过 middleware.MaxURLLength
var errURLTooLong = errors.New("url too long")

// ParseHandler 连接串解析 API Handler
type ParseHandler struct{}

// NewParseHandler 创建 ParseHandler
func NewParseHandler() *ParseHandler {
	return &ParseHandler{}
}

// Parse godoc
// @Summary 解析连接串
// @Description 解析 redis:// rediss:// redis+unix:// rediss+unix:// 连接串，返回结果中的密码已脱敏
// @Tags Parse
// @Accept json
// @Produce json
// @Param request body dto.ParseRequest true "解析请求"
// @Success 200 {object} dto.ParseResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/v1/parse [post]
func (h *ParseHandler) Parse(c *gin.Context) {
	var req dto.ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	h.respond(c, req.URL)
}

// ParseQuery godoc
// @Summary 解析连接串（GET）
// @Description 与 POST /parse 相同，连接串通过 url 参数传入（需要 URL 编码）
// @Tags Parse
// @Produce json
// @Param url query string true "连接串"
// @Success 200 {object} dto.ParseResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/v1/parse [get]
func (h *ParseHandler) ParseQuery(c *gin.Context) {
	var req dto.ParseRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	h.respond(c, req.URL)
}

// ParseBatch godoc
// @Summary 批量解析连接串
// @Description 逐个解析，单项失败不影响其他项，结果顺序与请求一致
// @Tags Parse
// @Accept json
// @Produce json
// @Param request body dto.BatchParseRequest true "批量解析请求"
// @Success 200 {object} dto.BatchParseResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/parse/batch [post]
func (h *ParseHandler) ParseBatch(c *gin.Context) {
	var req dto.BatchParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp := dto.BatchParseResponse{Items: make([]dto.BatchParseItem, 0, len(req.URLs))}
	for i, raw := range req.URLs {
		raw = middleware.SanitizeString(raw)
		item := dto.BatchParseItem{Index: i, Input: redisurl.Redact(raw)}

		spec, err := parse(raw)
		if err != nil {
			item.Error = err.Error()
			item.Reason = string(redisurl.ReasonOf(err))
			resp.Failed++
		} else {
			item.Item = spec.Redacted()
			resp.Succeeded++
		}
		resp.Items = append(resp.Items, item)
	}

	log := logger.WithRequestID(middleware.GetRequestID(c))
	log.Debug().
		Int("succeeded", resp.Succeeded).
		Int("failed", resp.Failed).
		Msg("批量解析完成")

	c.JSON(http.StatusOK, resp)
}

// Options godoc
// @Summary 查看客户端配置
// @Description 返回连接串对应的 go-redis 客户端配置（不含密码），包括 query 中的连接池与超时参数
// @Tags Parse
// @Accept json
// @Produce json
// @Param request body dto.ParseRequest true "解析请求"
// @Success 200 {object} dto.OptionsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/v1/options [post]
func (h *ParseHandler) Options(c *gin.Context) {
	var req dto.ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	spec, ok := h.parseOrAbort(c, req.URL)
	if !ok {
		return
	}

	opts, err := redisclient.Options(spec)
	if err != nil {
		metrics.RecordError("options", string(redisurl.ReasonOf(err)))
		abortWithParseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OptionsResponse{Item: redisclient.Summarize(opts)})
}

func (h *ParseHandler) respond(c *gin.Context, raw string) {
	spec, ok := h.parseOrAbort(c, raw)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.ParseResponse{
		Item:        spec.Redacted(),
		RedactedURL: spec.String(),
	})
}

// parseOrAbort 解析失败时直接写响应，返回 false
func (h *ParseHandler) parseOrAbort(c *gin.Context, raw string) (*redisurl.ConnectionSpec, bool) {
	raw = middleware.SanitizeString(raw)
	c.Set(middleware.CtxRedisURL, redisurl.Redact(raw))

	spec, err := parse(raw)
	if err != nil {
		abortWithParseError(c, err)
		return nil, false
	}
	return spec, true
}

// parse 校验长度后解析并记录指标
func parse(raw string) (*redisurl.ConnectionSpec, error) {
	if !middleware.ValidateURLLength(raw) {
		return nil, errURLTooLong
	}
	spec, err := redisurl.Parse(raw)
	metrics.RecordParse(spec, err)
	return spec, err
}

func abortWithParseError(c *gin.Context, err error) {
	if errors.Is(err, errURLTooLong) {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	reason := string(redisurl.ReasonOf(err))
	c.Set(middleware.CtxParseReason, reason)
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
		Error:  err.Error(),
		Reason: reason,
	})
}
