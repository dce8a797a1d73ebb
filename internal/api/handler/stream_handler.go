package handler

import (
	"Liveboard/internal/service"
	"fmt"
	log "log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

// sseHeartbeat SSE 心跳间隔，注释帧维持空闲连接
const sseHeartbeat = 15 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type StreamHandler struct {
	boardSvc   service.BoardService
	commentSvc service.CommentService
}

func NewStreamHandler(boardSvc service.BoardService, commentSvc service.CommentService) *StreamHandler {
	return &StreamHandler{
		boardSvc:   boardSvc,
		commentSvc: commentSvc,
	}
}

// StreamNewBoards 新帖实时流（SSE）：先回放最近一条广播，再按发布顺序推送
func (s *StreamHandler) StreamNewBoards(c *gin.Context) {
	ctx := c.Request.Context()

	sub := s.boardSvc.StreamBoards(ctx)
	defer sub.Cancel()

	setSSEHeaders(c)

	for {
		select {
		case board, ok := <-sub.C():
			if !ok {
				return
			}
			if !writeSSE(c, board) {
				return
			}
		case <-ctx.Done():
			return
		case <-time.After(sseHeartbeat):
			if _, err := fmt.Fprint(c.Writer, ": ping\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
		}
	}
}

// StreamComments 评论流（SSE）：历史评论先行，再接该帖的实时评论
func (s *StreamHandler) StreamComments(c *gin.Context) {
	boardID, err := strconv.ParseUint(c.Param("board_id"), 10, 64)
	if err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	ctx := c.Request.Context()

	history, sub, err := s.commentSvc.StreamComments(ctx, boardID)
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	defer sub.Cancel()

	setSSEHeaders(c)

	for _, comment := range history {
		if !writeSSE(c, comment) {
			return
		}
	}

	for {
		select {
		case comment, ok := <-sub.C():
			if !ok {
				return
			}
			// 评论 Hub 为全局广播，按帖过滤
			if comment.BoardID != boardID {
				continue
			}
			if !writeSSE(c, comment) {
				return
			}
		case <-ctx.Done():
			return
		case <-time.After(sseHeartbeat):
			if _, err := fmt.Fprint(c.Writer, ": ping\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
		}
	}
}

// StreamNewBoardsWS 新帖实时流（WebSocket 变体）
func (s *StreamHandler) StreamNewBoardsWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WS 协议升级失败", "err", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	sub := s.boardSvc.StreamBoards(c.Request.Context())
	defer sub.Cancel()

	stopChan := make(chan struct{})

	// 读循环：监听客户端主动断开
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				close(stopChan)
				return
			}
		}
	}()

	// 写循环：消费订阅并推送至客户端
	for {
		select {
		case board, ok := <-sub.C():
			if !ok {
				return
			}
			payload, err := json.Marshal(board)
			if err != nil {
				log.Error("WS 编码失败", "boardID", board.ID, "err", err)
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err = conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Warn("WS 推送失败", "err", err)
				return
			}
		case <-stopChan:
			return
		}
	}
}

func setSSEHeaders(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Writer.Flush()
}

// writeSSE 写出一帧 SSE 事件并立即刷出
func writeSSE(c *gin.Context, v interface{}) bool {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error("SSE 编码失败", "err", err)
		return false
	}
	if _, err = fmt.Fprintf(c.Writer, "data: %s\n\n", data); err != nil {
		return false
	}
	c.Writer.Flush()
	return true
}
