package engine

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/capflow/internal/model"
	"github.com/theirongolddev/capflow/internal/money"
)

// AddCustomEvent registers a user-authored event. The title must be
// non-empty and the value a positive finite amount; the pool holds at most
// model.CustomEventCap events.
func (e *Engine) AddCustomEvent(title string, value float64, impact model.Impact, note string) (model.CustomEvent, bool) {
	title = strings.TrimSpace(title)
	if title == "" || !money.Finite(value) || value <= 0 {
		return model.CustomEvent{}, false
	}
	if len(e.state.CustomEvents) >= model.CustomEventCap {
		return model.CustomEvent{}, false
	}
	if impact != model.Decrease {
		impact = model.Increase
	}
	ev := model.CustomEvent{
		ID:      e.newID(),
		Title:   title,
		Value:   money.Round2(money.Clamp(value)),
		Impact:  impact,
		Note:    model.CapNote(note),
		Created: e.now(),
	}
	e.state.CustomEvents = append(e.state.CustomEvents, ev)
	e.logf("Added event %q (%s)", ev.Title, signed(ev.Delta()))
	return ev, true
}

// RemoveCustomEvent deletes a custom event by id.
func (e *Engine) RemoveCustomEvent(id string) bool {
	idx := e.state.FindCustomEvent(id)
	if idx < 0 {
		return false
	}
	ev := e.state.CustomEvents[idx]
	e.state.CustomEvents = append(e.state.CustomEvents[:idx], e.state.CustomEvents[idx+1:]...)
	e.logf("Removed event %q", ev.Title)
	return true
}

func (e *Engine) fireCustomEvent(ev model.CustomEvent) string {
	e.shiftCapital(ev.Delta())
	msg := fmt.Sprintf("%s: %s", ev.Title, signed(ev.Delta()))
	e.logf("%s", msg)
	e.logger.Info("event fired", "event", "custom", "title", ev.Title, "tick", e.state.TickCount)
	return msg
}
