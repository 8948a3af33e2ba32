package types

// SkillInput is the normalized contract the orchestrator builds for a
// skill handler. Handlers receive copies of derived values, never the
// live session store.
type SkillInput struct {
	// Message is the raw user utterance that triggered the invocation.
	Message string
	// Fields holds the per-category structured fields (job_description,
	// job_title, location, ...) after slot filling and profile backfill.
	Fields map[string]string
	// History is the role-tagged conversation window for handlers that
	// need it (mock interviews, evaluations).
	History []Message
}

// Field returns the named field or "" when absent.
func (in *SkillInput) Field(name string) string {
	if in.Fields == nil {
		return ""
	}
	return in.Fields[name]
}

// SkillResult is the single result shape every handler constructs
// explicitly. Output is always non-empty on success; Resume is set only
// by the resume builder and carries the full updated resume text.
type SkillResult struct {
	Output string
	Resume string
}
