package store

// Exchange is one persisted prompt/response pair. Rows are immutable once
// written; the only mutation the log supports is clearing everything.
type Exchange struct {
	ID        int64
	Prompt    string
	Response  string
	CreatedTs int64
}

type CreateExchange struct {
	Prompt   string
	Response string
}
