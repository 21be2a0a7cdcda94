package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ogurasousui/orgreport/internal/adapters/grpc/reportv1"
	"github.com/ogurasousui/orgreport/internal/adapters/render"
	"github.com/ogurasousui/orgreport/internal/core/report"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ReportGrpcHandler は ReportService の gRPC 実装です。
type ReportGrpcHandler struct {
	svc report.UseCase
	reportv1.UnimplementedReportServiceServer
}

// NewReportGrpcHandler は ReportGrpcHandler を生成します。
func NewReportGrpcHandler(svc report.UseCase) *ReportGrpcHandler {
	return &ReportGrpcHandler{svc: svc}
}

// GenerateReport はレポートを生成し、JSON 出力と同じ構造の Struct で返します。
func (h *ReportGrpcHandler) GenerateReport(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	rep, err := h.svc.GenerateReport(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	out, err := ToStruct(render.NewDocument(rep))
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// ToStruct は Document を structpb.Struct に変換します。
func ToStruct(doc render.Document) (*structpb.Struct, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("handler: encode document: %w", err)
	}
	out := &structpb.Struct{}
	if err := out.UnmarshalJSON(b); err != nil {
		return nil, fmt.Errorf("handler: convert document: %w", err)
	}
	return out, nil
}

// FromStruct は ToStruct の逆変換です。
func FromStruct(st *structpb.Struct) (render.Document, error) {
	var doc render.Document
	b, err := st.MarshalJSON()
	if err != nil {
		return doc, fmt.Errorf("handler: encode struct: %w", err)
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return doc, fmt.Errorf("handler: decode document: %w", err)
	}
	return doc, nil
}
