// Package render はレポートを表示用の形式へ変換する出力アダプタです。
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ogurasousui/orgreport/internal/core/report"
	"github.com/shopspring/decimal"
)

// DiscrepancyPlaces は差額を表示する最小の小数桁数です。
const DiscrepancyPlaces = 2

// Format は出力形式です。
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

var ErrUnknownFormat = errors.New("render: unknown format")

// ParseFormat は文字列から Format を解決します。空文字列は text として扱います。
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(FormatText):
		return FormatText, nil
	case string(FormatJSON):
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, raw)
	}
}

// Write は指定された形式でレポートを書き出します。
func Write(w io.Writer, format Format, rep *report.Report) error {
	switch format {
	case FormatText:
		var findings []report.Finding
		if rep != nil {
			findings = rep.Findings
		}
		return Text(w, findings)
	case FormatJSON:
		return JSON(w, rep)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Text は 1 件の異常につき 1 行を書き出します。異常がない場合は何も書き出しません。
func Text(w io.Writer, findings []report.Finding) error {
	for _, f := range findings {
		if _, err := io.WriteString(w, Line(f)+"\n"); err != nil {
			return fmt.Errorf("render: write text: %w", err)
		}
	}
	return nil
}

// Line は異常 1 件の表示行を返します。
func Line(f report.Finding) string {
	line := fmt.Sprintf("Employee ID: %d, Name: %s %s, Issue: %s", f.Employee.ID, f.Employee.FirstName, f.Employee.LastName, f.Message)
	if f.Discrepancy.Valid {
		line += ", Discrepancy: " + FormatDiscrepancy(f.Discrepancy.Decimal)
	}
	return line
}

// FormatDiscrepancy は差額を丸めずに表示します。
// 末尾の 0 を除いた小数桁が DiscrepancyPlaces 以下の場合は DiscrepancyPlaces 桁に揃えます。
func FormatDiscrepancy(d decimal.Decimal) string {
	if d.Equal(d.Round(DiscrepancyPlaces)) {
		return d.StringFixed(DiscrepancyPlaces)
	}
	return d.String()
}

// Document は JSON や gRPC で公開するレポートの表現です。
type Document struct {
	RunID       string            `json:"run_id"`
	GeneratedAt string            `json:"generated_at"`
	Findings    []FindingDocument `json:"findings"`
}

// FindingDocument は異常 1 件の表現です。
type FindingDocument struct {
	EmployeeID  int64  `json:"employee_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Kind        string `json:"kind"`
	Message     string `json:"message"`
	Discrepancy string `json:"discrepancy,omitempty"`
	Excess      int    `json:"excess,omitempty"`
}

// NewDocument はレポートを Document に変換します。
func NewDocument(rep *report.Report) Document {
	doc := Document{Findings: []FindingDocument{}}
	if rep == nil {
		return doc
	}

	doc.RunID = rep.RunID
	if !rep.GeneratedAt.IsZero() {
		doc.GeneratedAt = rep.GeneratedAt.UTC().Format(time.RFC3339)
	}
	for _, f := range rep.Findings {
		fd := FindingDocument{
			EmployeeID: f.Employee.ID,
			FirstName:  f.Employee.FirstName,
			LastName:   f.Employee.LastName,
			Kind:       string(f.Kind),
			Message:    f.Message,
			Excess:     f.Excess,
		}
		if f.Discrepancy.Valid {
			fd.Discrepancy = FormatDiscrepancy(f.Discrepancy.Decimal)
		}
		doc.Findings = append(doc.Findings, fd)
	}
	return doc
}

// JSON はレポートをインデント付き JSON で書き出します。
func JSON(w io.Writer, rep *report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(rep)); err != nil {
		return fmt.Errorf("render: write json: %w", err)
	}
	return nil
}
