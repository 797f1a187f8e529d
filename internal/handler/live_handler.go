package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"classpoints/internal/model"
	"classpoints/internal/realtime"
	"classpoints/internal/repository"
	"classpoints/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

// LiveHandler serves push-driven live streams over WebSocket. Each stream is
// a single snapshot that gets fully replaced: on connect the client receives
// the current state, and every change event on the stream's Redis channel
// triggers a fresh re-query and a complete new snapshot. No diffing, last
// delivered snapshot wins.
type LiveHandler struct {
	redisClient        *redis.Client
	users              repository.UserRepository
	classService       service.ClassService
	leaderboardService service.LeaderboardService
	supervisorService  service.SupervisorService
	pointsService      service.PointsService
	upgrader           websocket.Upgrader
}

func NewLiveHandler(
	redisClient *redis.Client,
	users repository.UserRepository,
	classService service.ClassService,
	leaderboardService service.LeaderboardService,
	supervisorService service.SupervisorService,
	pointsService service.PointsService,
) *LiveHandler {
	return &LiveHandler{
		redisClient:        redisClient,
		users:              users,
		classService:       classService,
		leaderboardService: leaderboardService,
		supervisorService:  supervisorService,
		pointsService:      pointsService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

type snapshotFunc func(ctx context.Context) (interface{}, error)

type liveMessage struct {
	Stream string      `json:"stream"`
	Data   interface{} `json:"data"`
}

func (h *LiveHandler) Stream(c *gin.Context) {
	userID := c.GetString("user_id")

	// Fresh profile lookup on every connect, same as the page guards.
	user, err := h.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user profile not found"})
		return
	}

	stream := c.Param("stream")
	snapshot, channel, err := h.resolveStream(c, stream, user)
	if err != nil {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("failed to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	if err := h.sendSnapshot(c.Request.Context(), conn, stream, snapshot); err != nil {
		return
	}

	// Without Redis there is no change feed: hold the connection so the
	// client keeps its initial snapshot, but nothing more will arrive.
	if h.redisClient == nil {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}

	pubsub := h.redisClient.Subscribe(c.Request.Context(), channel)
	defer pubsub.Close()

	// Wait for confirmation that the subscription is created
	if _, err := pubsub.Receive(c.Request.Context()); err != nil {
		log.Printf("failed to subscribe to redis channel: %v", err)
		return
	}

	ch := pubsub.Channel()

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ch:
			// Any change event invalidates the whole snapshot; re-query
			// and push a complete replacement.
			if err := h.sendSnapshot(c.Request.Context(), conn, stream, snapshot); err != nil {
				return
			}
		case <-clientClosed:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}

func (h *LiveHandler) sendSnapshot(ctx context.Context, conn *websocket.Conn, stream string, snapshot snapshotFunc) error {
	data, err := snapshot(ctx)
	if err != nil {
		log.Printf("failed to build %s snapshot: %v", stream, err)
		return err
	}

	if err := conn.WriteJSON(liveMessage{Stream: stream, Data: data}); err != nil {
		log.Printf("failed to write snapshot to websocket: %v", err)
		return err
	}

	return nil
}

// resolveStream picks the snapshot query and the pub/sub channel for the
// requested stream, enforcing per-stream role rules. On error it has already
// written the HTTP response.
func (h *LiveHandler) resolveStream(c *gin.Context, stream string, user *model.User) (snapshotFunc, string, error) {
	switch stream {
	case "classes":
		order := repository.OrderByName
		if c.Query("sort") == "points" {
			order = repository.OrderByPointsDesc
		}
		return func(ctx context.Context) (interface{}, error) {
			return h.classService.List(ctx, order)
		}, realtime.Channel(realtime.StreamClasses), nil

	case "leaderboard":
		// The leaderboard is derived from classes, so it follows the
		// classes change feed.
		return func(ctx context.Context) (interface{}, error) {
			return h.leaderboardService.Leaderboard(ctx)
		}, realtime.Channel(realtime.StreamClasses), nil

	case "supervisors":
		if user.Role != model.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return nil, "", errForbiddenStream
		}
		return func(ctx context.Context) (interface{}, error) {
			return h.supervisorService.List(ctx)
		}, realtime.Channel(realtime.StreamSupervisors), nil

	case "activity":
		limit := service.DefaultActivityLimit
		if raw := c.Query("limit"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil {
				limit = parsed
			}
		}
		if user.Role == model.RoleAdmin {
			return func(ctx context.Context) (interface{}, error) {
				return h.pointsService.RecentAll(ctx, limit)
			}, realtime.Channel(realtime.StreamActivity), nil
		}
		supervisorID := user.ID
		return func(ctx context.Context) (interface{}, error) {
			return h.pointsService.RecentBySupervisor(ctx, supervisorID, limit)
		}, realtime.Channel(realtime.StreamActivity), nil

	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown stream"})
		return nil, "", errUnknownStream
	}
}

var (
	errUnknownStream   = &streamError{"unknown stream"}
	errForbiddenStream = &streamError{"forbidden stream"}
)

type streamError struct {
	msg string
}

func (e *streamError) Error() string {
	return e.msg
}
