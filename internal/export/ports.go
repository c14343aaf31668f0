package export

import (
	"context"

	"fintrack/internal/core"
)

// TransactionAppender is the outbound port for exporting recorded
// transactions to an external destination (a spreadsheet, a file, a
// test double). Append returns an opaque reference to where the row
// landed.
type TransactionAppender interface {
	Append(ctx context.Context, tx core.Transaction) (rowRef string, err error)
}
