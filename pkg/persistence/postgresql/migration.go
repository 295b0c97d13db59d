package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE automations (
				id UUID PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				kind VARCHAR(50) NOT NULL CHECK (kind IN ('generic_workflow', 'email_sequence')),
				enabled BOOLEAN NOT NULL DEFAULT FALSE,
				trigger_type VARCHAR(100) NOT NULL DEFAULT '',
				trigger_config JSONB,
				sequence_exit_on_reply BOOLEAN NOT NULL DEFAULT FALSE,
				sequence_exit_on_convert BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_automations_enabled ON automations(enabled);
			CREATE INDEX idx_automations_created_at ON automations(created_at);

			-- Steps are stored with an explicit position equal to the
			-- slice index at save time; loads order by it.
			CREATE TABLE automation_steps (
				automation_id UUID NOT NULL REFERENCES automations(id) ON DELETE CASCADE,
				id VARCHAR(100) NOT NULL,
				type VARCHAR(100) NOT NULL,
				config JSONB,
				position INTEGER NOT NULL,
				PRIMARY KEY (automation_id, id)
			);

			CREATE INDEX idx_automation_steps_position ON automation_steps(automation_id, position);
		`,
		2: `
			-- Execution history written by the executor, read by the log
			-- viewer. Per-step outcomes stay denormalized: they are only
			-- ever read as a whole.
			CREATE TABLE executions (
				id UUID PRIMARY KEY,
				automation_id UUID NOT NULL,
				status VARCHAR(20) NOT NULL CHECK (status IN ('running', 'completed', 'failed')),
				started_at TIMESTAMP WITH TIME ZONE NOT NULL,
				steps JSONB
			);

			CREATE INDEX idx_executions_automation_id ON executions(automation_id, started_at DESC);
		`,
	}
}
