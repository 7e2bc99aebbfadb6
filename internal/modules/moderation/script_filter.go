package moderation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/colefield/parley/internal/script"
)

// DeleteFilterScript is the script name the delete/restore filter looks for.
const DeleteFilterScript = "topic_delete"

// ScriptFilter runs an operator-supplied Tengo script against pending
// delete/restore decisions, so deployment-specific policy doesn't require a
// recompile. The script receives the decision as `input` and may override
// the verdict and the acting user through `output`:
//
//	if input.postcount == 0 && input.is_delete {
//	    output.allow = true
//	}
type ScriptFilter struct {
	engine *script.Engine
}

// NewScriptFilter creates a filter backed by the given script engine.
func NewScriptFilter(engine *script.Engine) *ScriptFilter {
	return &ScriptFilter{engine: engine}
}

// FilterDelete implements DeleteFilter. A missing script is not an error;
// the decision passes through unchanged.
func (f *ScriptFilter) FilterDelete(ctx context.Context, d *DeleteDecision) error {
	if _, ok := f.engine.Get(DeleteFilterScript); !ok {
		return nil
	}

	input := map[string]any{
		"tid":       d.Topic.TID,
		"cid":       d.Topic.CID,
		"owner_uid": d.Topic.UID,
		"uid":       d.UID,
		"is_delete": d.IsDelete,
		"allow":     d.Allowed,
		"deleted":   d.Topic.Deleted,
		"locked":    d.Topic.Locked,
		"pinned":    d.Topic.Pinned,
		"postcount": d.Topic.PostCount,
	}

	out, err := f.engine.Run(ctx, DeleteFilterScript, input)
	if err != nil {
		return fmt.Errorf("delete filter script failed: %w", err)
	}

	if allow, ok := out["allow"].(bool); ok {
		d.Allowed = allow
	}
	if uid, ok := out["uid"].(string); ok && uid != "" {
		d.UID = uid
	}

	slog.Debug("Delete filter script applied",
		"tid", d.Topic.TID, "allow", d.Allowed, "uid", d.UID)
	return nil
}
