package ranker

// BuildQuery synthesizes the ranking query from the persona role and the
// job-to-be-done. The job text prefers the description field and falls back
// to the task field; both sides get a neutral placeholder when absent. The
// query is recomputed per invocation, never cached.
func BuildQuery(role, description, task string) string {
	job := description
	if job == "" {
		job = task
	}
	if job == "" {
		job = "a task"
	}
	if role == "" {
		role = "a reader"
	}
	return role + ": " + job
}
