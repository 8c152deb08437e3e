package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"storehouse/internal/common"
	"storehouse/internal/models"
	"storehouse/internal/repositories"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var reportHeader = []string{
	"category", "commodity", "unit", "count", "price",
	"origin_total", "line_total", "category_total", "order_total",
}

// ReportService exports an order's aggregated lines as CSV to object storage
type ReportService interface {
	ExportOrder(ctx context.Context, orderID uuid.UUID) (*models.OrderReport, error)
}

type reportService struct {
	orderRepo   repositories.OrderRepository
	aggregation AggregationService
	storage     ObjectStorage
	bucket      string
	urlExpiry   time.Duration
	now         func() time.Time
	log         *logrus.Logger
}

func NewReportService(orderRepo repositories.OrderRepository, aggregation AggregationService, storage ObjectStorage, bucket string, urlExpiry time.Duration, log *logrus.Logger) ReportService {
	return &reportService{
		orderRepo:   orderRepo,
		aggregation: aggregation,
		storage:     storage,
		bucket:      bucket,
		urlExpiry:   urlExpiry,
		now:         time.Now,
		log:         log,
	}
}

func (s *reportService) ExportOrder(ctx context.Context, orderID uuid.UUID) (*models.OrderReport, error) {
	if _, err := s.orderRepo.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	lines, err := s.aggregation.AggregateOrderLines(ctx, orderID)
	if err != nil {
		return nil, err
	}

	body, err := renderOrderCSV(lines)
	if err != nil {
		return nil, common.StorageError("render order report", err)
	}

	generatedAt := s.now().UTC()
	key := fmt.Sprintf("orders/%s/%s.csv", orderID, generatedAt.Format("20060102T150405Z"))
	if err := s.storage.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)), "text/csv"); err != nil {
		return nil, common.StorageError("upload order report", errors.Wrap(err, key))
	}
	url, err := s.storage.PresignedGetURL(ctx, s.bucket, key, s.urlExpiry)
	if err != nil {
		return nil, common.StorageError("sign order report url", errors.Wrap(err, key))
	}

	report := &models.OrderReport{
		OrderID:     orderID,
		ObjectKey:   key,
		URL:         url,
		LineCount:   len(lines),
		GeneratedAt: generatedAt,
	}
	if len(lines) > 0 {
		report.OrderTotal = lines[0].OrderTotal
	}

	s.log.WithFields(logrus.Fields{"order_id": orderID, "key": key, "lines": len(lines)}).Info("order report exported")
	return report, nil
}

func renderOrderCSV(lines []*models.EnrichedOrderLine) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(reportHeader); err != nil {
		return nil, err
	}
	for _, line := range lines {
		record := []string{
			line.Category.Name,
			line.Commodity.Name,
			line.Unit.Name,
			formatAmount(line.Count),
			formatAmount(line.Price),
			formatAmount(line.OriginTotal),
			strconv.FormatInt(line.LineTotal, 10),
			strconv.FormatInt(line.CategoryTotal, 10),
			strconv.FormatInt(line.OrderTotal, 10),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
