package api

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/yockii/ppt_tools/internal/generator"
	"github.com/yockii/ppt_tools/internal/service"
	"github.com/yockii/ppt_tools/pkg/logger"
)

type GenerateHandler struct {
	generator *generator.Generator
}

func RegisterGenerateHandler(gen *generator.Generator) {
	Handlers = append(Handlers, NewGenerateHandler(gen))
}

func NewGenerateHandler(gen *generator.Generator) *GenerateHandler {
	return &GenerateHandler{generator: gen}
}

func (h *GenerateHandler) RegisterRoutes(router fiber.Router, mw Middlewares) {
	r := router.Group("/generate")
	if mw.OptionalAuth != nil {
		r.Use(mw.OptionalAuth)
	}
	if mw.RateLimit != nil {
		r.Use(mw.RateLimit)
	}
	{
		r.Post("/", h.Generate)
		r.Post("/stream", h.Stream)
	}
}

func (h *GenerateHandler) Generate(c *fiber.Ctx) error {
	var req generator.Request
	if err := parseBody(c, msgInvalidRequest, &req); err != nil {
		return fail(c, err)
	}
	outline, err := h.generator.Generate(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(service.OK(outline))
}

// Stream 以 SSE 推送生成过程：chunk 为文本片段，done 携带解析结果，error 为失败信息
func (h *GenerateHandler) Stream(c *fiber.Ctx) error {
	var req generator.Request
	if err := parseBody(c, msgInvalidRequest, &req); err != nil {
		return fail(c, err)
	}

	ctx, cancel := context.WithCancel(c.UserContext())
	stream, err := h.generator.Stream(ctx, req)
	if err != nil {
		cancel()
		return fail(c, err)
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")

	c.Status(fiber.StatusOK).Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		defer stream.Close()

		for chunk, err := range stream.Chunks() {
			if err != nil {
				_ = writeEvent(w, "error", service.Error(err))
				return
			}
			if err := writeEvent(w, "chunk", fiber.Map{"text": chunk}); err != nil {
				// 客户端断开，停止遍历会关闭上游连接
				logger.Warn("推送生成片段失败", logger.F("err", err))
				return
			}
		}

		outline, err := stream.Result()
		if err != nil {
			_ = writeEvent(w, "error", service.Error(err))
			return
		}
		if err := writeEvent(w, "done", service.OK(outline)); err != nil {
			logger.Warn("推送生成结果失败", logger.F("err", err))
		}
	}))
	return nil
}

func writeEvent(w *bufio.Writer, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return w.Flush()
}
