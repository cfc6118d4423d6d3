// Package coach is the ingestion pipeline: free-form user text goes to the
// language model, a nutrition record is extracted from the reply, persisted,
// and observers are notified. It has two entry points with different
// failure contracts — Chat keeps the conversation alive at all costs,
// LogFood treats the stored record as the point of the call.
package coach

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/lionsys/fittrack/internal/gemini"
	"github.com/lionsys/fittrack/internal/store"
)

// historyWindow bounds how many prior turns are replayed into the prompt.
const historyWindow = 5

type Gateway interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type LogWriter interface {
	Create(ctx context.Context, e store.LogEntry) (*store.LogEntry, error)
}

type Notifier interface {
	Notify(e store.LogEntry)
}

// Turn is one conversational exchange, held only in the session's rolling
// window; turns are never persisted.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Coach struct {
	gateway  Gateway
	logs     LogWriter
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

func New(gw Gateway, logs LogWriter, notifier Notifier, logger *slog.Logger) *Coach {
	return &Coach{
		gateway:  gw,
		logs:     logs,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Chat runs the conversational pipeline. The returned reply is always
// displayable: gateway failures become an in-character apology and store
// failures are swallowed so the chat continues. logged reports whether a
// nutrition record was persisted.
func (c *Coach) Chat(ctx context.Context, userText string, history []Turn) (reply string, logged bool) {
	prompt := buildChatPrompt(userText, history)

	raw, err := c.gateway.Generate(ctx, prompt)
	if err != nil {
		c.logger.Error("chat generation failed", "error", err)
		if errors.Is(err, gemini.ErrRateLimited) {
			return busyReply, false
		}
		return apologyReply, false
	}

	display, n := extractNutrition(raw, c.logger)
	if n == nil {
		return display, false
	}

	stored, err := c.logs.Create(ctx, c.newEntry(*n))
	if err != nil {
		// Reply delivery beats storage confirmation on this path.
		c.logger.Error("failed to store chat nutrition record", "food", n.Food, "error", err)
		return display, false
	}

	c.notify(*stored)
	c.logger.Info("logged food from chat", "id", stored.ID, "food", stored.Food, "calories", stored.Calories)
	return display, true
}

// LogFood runs the direct pipeline: strict prompt, strict JSON reply, and
// every failure — gateway, parse, or store — propagates to the caller.
func (c *Coach) LogFood(ctx context.Context, text string) (*store.LogEntry, error) {
	raw, err := c.gateway.Generate(ctx, fmt.Sprintf(analyzeUserPrompt, text))
	if err != nil {
		return nil, fmt.Errorf("analyze food: %w", err)
	}

	n, err := parseNutrition(raw)
	if err != nil {
		return nil, fmt.Errorf("parse analysis: %w", err)
	}

	stored, err := c.logs.Create(ctx, c.newEntry(*n))
	if err != nil {
		return nil, err
	}

	c.notify(*stored)
	c.logger.Info("logged food", "id", stored.ID, "food", stored.Food, "calories", stored.Calories)
	return stored, nil
}

func (c *Coach) newEntry(n Nutrition) store.LogEntry {
	now := c.now()
	return store.LogEntry{
		ID:       strconv.FormatInt(now.UnixMilli(), 10),
		Date:     now.Format(store.DayFormat),
		Food:     n.Food,
		Calories: n.Calories,
		Protein:  n.Protein,
		Carbs:    n.Carbs,
		Fats:     n.Fats,
		WaterML:  n.WaterML,
	}
}

func (c *Coach) notify(e store.LogEntry) {
	if c.notifier != nil {
		c.notifier.Notify(e)
	}
}

func buildChatPrompt(userText string, history []Turn) string {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	var b strings.Builder
	b.WriteString(chatSystemPrompt)
	b.WriteString("\n\nChat History:\n")
	for _, t := range history {
		b.WriteString(t.Role)
		b.WriteString(": ")
		b.WriteString(t.Content)
		b.WriteString("\n")
	}
	b.WriteString("User: ")
	b.WriteString(userText)
	b.WriteString("\nAssistant:")
	return b.String()
}
