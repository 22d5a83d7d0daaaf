// Package sheet writes check results into a Google Sheets cell.
package sheet

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"login-probe/internal/entity"
)

// Reporter updates single cells of one spreadsheet.
type Reporter struct {
	svc           *sheets.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewReporter builds a Sheets client authenticated with a service account key file.
func NewReporter(ctx context.Context, spreadsheetID, keyPath string, logger *zap.Logger) (*Reporter, error) {
	return NewReporterWithOptions(ctx, spreadsheetID, logger,
		option.WithCredentialsFile(keyPath),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
}

// NewReporterWithOptions builds a Sheets client from explicit client options.
func NewReporterWithOptions(ctx context.Context, spreadsheetID string, logger *zap.Logger, opts ...option.ClientOption) (*Reporter, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Reporter{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		logger:        logger,
	}, nil
}

// UpdateCell writes value into cell as a raw (unparsed) string.
func (r *Reporter) UpdateCell(ctx context.Context, cell entity.Cell, value string) error {
	body := &sheets.ValueRange{
		Values: [][]interface{}{{value}},
	}
	_, err := r.svc.Spreadsheets.Values.
		Update(r.spreadsheetID, cell.A1(), body).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", cell.A1(), err)
	}
	return nil
}

// LogResult records status in cell. Failures are logged, never returned:
// a broken spreadsheet must not change the outcome of the check.
func (r *Reporter) LogResult(ctx context.Context, cell entity.Cell, status entity.Status) {
	if err := r.UpdateCell(ctx, cell, status.String()); err != nil {
		r.logger.Error("failed to log result to sheet",
			zap.String("range", cell.A1()),
			zap.String("status", status.String()),
			zap.Error(err))
		return
	}
	r.logger.Info(fmt.Sprintf("Updated cell %s with status: %s", cell.A1(), status),
		zap.String("range", cell.A1()))
}
