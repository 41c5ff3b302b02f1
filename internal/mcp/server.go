// Package mcp implements the tool-call engine: it owns the tool catalog,
// dispatches calls against a player's session, and turns the outcome into
// a narrated message plus a full game state snapshot.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"github.com/dungeonforge/crawl-engine/internal/storage"
	"github.com/dungeonforge/crawl-engine/pkg/dungeon"
	"github.com/dungeonforge/crawl-engine/pkg/game"
	"github.com/dungeonforge/crawl-engine/pkg/snapshot"
)

// CallRequest is the body of POST /mcp/call.
type CallRequest struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ContentBlock is one piece of tool output.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallResult is the response to a tool call. IsError marks rejected
// actions; those never mutate the session.
type CallResult struct {
	Content   []ContentBlock     `json:"content"`
	IsError   bool               `json:"isError,omitempty"`
	GameState *snapshot.Snapshot `json:"gameState,omitempty"`
}

// Server executes tool calls against persisted sessions. Calls for the
// same session are serialized through a per-session mutex; calls for
// different sessions run concurrently.
type Server struct {
	storage storage.Storage
	logger  *slog.Logger
	content *dungeon.Content

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewServer creates a tool-call server. A nil content pack selects the
// compiled-in defaults.
func NewServer(st storage.Storage, logger *slog.Logger, content *dungeon.Content) *Server {
	if content == nil {
		content = dungeon.DefaultContent()
	}
	return &Server{
		storage: st,
		logger:  logger,
		content: content,
		locks:   make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *Server) sessionLock(id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

// CallTool runs one tool call for a session. Game-rule rejections come
// back as an IsError result with the session untouched; only storage
// failures surface as an error.
func (s *Server) CallTool(ctx context.Context, sessionID uuid.UUID, req CallRequest) (*CallResult, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.storage.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if sess == nil {
		sess = game.NewSession(sessionID)
	}
	sess.Turn = &game.TurnContext{}

	var msg string
	switch req.Name {
	case "new_game":
		sess, msg = s.newGame(sessionID, req.Arguments)
	case "look":
		msg, err = s.look(sess)
	case "move":
		msg, err = s.move(sess, req.Arguments)
	case "attack":
		msg, err = s.attack(sess, req.Arguments)
	case "take":
		msg, err = s.take(sess, req.Arguments)
	case "use":
		msg, err = s.use(sess, req.Arguments)
	case "equip":
		msg, err = s.equip(sess, req.Arguments)
	case "inventory":
		msg, err = s.inventory(sess)
	case "stats":
		msg, err = s.stats(sess)
	case "map":
		msg, err = s.dungeonMap(sess)
	default:
		return errorResult(s.unknownTool(req.Name)), nil
	}

	if err != nil {
		s.logger.Debug("tool call rejected",
			"tool", req.Name,
			"session_id", sessionID.String(),
			"reason", err.Error())
		return errorResult(s.rejectionMessage(err, sess, req)), nil
	}

	if err := s.storage.SaveSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Info("tool call",
		"tool", req.Name,
		"session_id", sessionID.String(),
		"turn", sess.TurnNumber)

	snap := snapshot.Build(sess)
	if snap != nil {
		snap.Message = msg
	}
	return &CallResult{
		Content:   []ContentBlock{{Type: "text", Text: msg}},
		GameState: snap,
	}, nil
}

func errorResult(msg string) *CallResult {
	return &CallResult{
		Content: []ContentBlock{{Type: "text", Text: msg}},
		IsError: true,
	}
}

// unknownTool builds the rejection for a tool name outside the catalog,
// suggesting the closest known name when one is plausible.
func (s *Server) unknownTool(name string) string {
	names := make([]string, 0, len(ListTools()))
	for _, t := range ListTools() {
		names = append(names, t.Name)
	}
	if hint := closest(name, names); hint != "" {
		return fmt.Sprintf("Unknown tool %q. Did you mean %q?", name, hint)
	}
	return fmt.Sprintf("Unknown tool %q.", name)
}

// rejectionMessage maps a game-rule error to player-facing text.
func (s *Server) rejectionMessage(err error, sess *game.Session, req CallRequest) string {
	switch {
	case errors.Is(err, game.ErrNoActiveGame):
		return "No game in progress. Start one with new_game."
	case errors.Is(err, game.ErrInvalidDirection):
		msg := "You can't go that way."
		if room := sess.CurrentRoom(); room != nil {
			dirs := room.ExitDirections()
			if hint := closest(argString(req.Arguments, "direction"), dirs); hint != "" {
				return fmt.Sprintf("%s Did you mean %q?", msg, hint)
			}
			sort.Strings(dirs)
			return fmt.Sprintf("%s Exits lead %s.", msg, strings.Join(dirs, ", "))
		}
		return msg
	case errors.Is(err, game.ErrBlocked):
		return "A monster blocks your way. Deal with it before moving on."
	case errors.Is(err, game.ErrUnknownTarget):
		return "There is no such target here."
	case errors.Is(err, game.ErrUnknownItem):
		return "You don't see that item."
	case errors.Is(err, game.ErrWrongItemType):
		return "That item can't be used that way."
	default:
		return err.Error()
	}
}

// closest returns the candidate within edit distance 2 of the input, or
// empty when nothing is close enough to be a plausible typo.
func closest(input string, candidates []string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return ""
	}
	best, bestDist := "", 3
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(input, strings.ToLower(c)); d < bestDist {
			best, bestDist = c, d
		}
	}
	if best == strings.ToLower(input) {
		return ""
	}
	return best
}

func argString(args map[string]any, key string) string {
	if args == nil {
		return ""
	}
	if v, ok := args[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func argInt64(args map[string]any, key string) (int64, bool) {
	if args == nil {
		return 0, false
	}
	switch v := args[key].(type) {
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}
