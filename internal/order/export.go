package order

import (
	"context"
	"fmt"
	"io"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/talkincode/voltdesk/internal/domain"
)

// csvOrder is the flattened export row.
type csvOrder struct {
	UID           string  `csv:"uid"`
	CustomerName  string  `csv:"customer_name"`
	CustomerPhone string  `csv:"customer_phone"`
	Address       string  `csv:"address"`
	ScheduledDate string  `csv:"scheduled_date"`
	ScheduledTime string  `csv:"scheduled_time"`
	Status        string  `csv:"status"`
	AssignedTo    string  `csv:"assigned_to_name"`
	TotalPoints   int     `csv:"total_points"`
	TotalAmount   float64 `csv:"total_amount"`
	PaidAmount    float64 `csv:"paid_amount"`
	PaymentStatus string  `csv:"payment_status"`
	CreatedAt     string  `csv:"created_at"`
}

func exportRows(orders []*domain.Order) []csvOrder {
	rows := make([]csvOrder, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, csvOrder{
			UID:           o.UID,
			CustomerName:  o.CustomerName,
			CustomerPhone: o.CustomerPhone,
			Address:       o.Address,
			ScheduledDate: o.ScheduledDate,
			ScheduledTime: o.ScheduledTime,
			Status:        o.Status,
			AssignedTo:    o.AssignedToName,
			TotalPoints:   o.TotalPoints,
			TotalAmount:   o.TotalAmount,
			PaidAmount:    o.PaidAmount,
			PaymentStatus: o.PaymentStatus,
			CreatedAt:     o.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return rows
}

// ExportCSV writes all orders as CSV.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	orders, err := s.repo.ListAll(ctx)
	if err != nil {
		return errors.Wrap(err, "load orders")
	}
	rows := exportRows(orders)
	return gocsv.Marshal(&rows, w)
}

var excelHeader = []string{
	"UID", "Customer", "Phone", "Address", "Date", "Time",
	"Status", "Executor", "Points", "Amount", "Paid", "Payment",
	"Created",
}

// ExportExcel writes all orders as an xlsx workbook.
func (s *Service) ExportExcel(ctx context.Context, w io.Writer) error {
	orders, err := s.repo.ListAll(ctx)
	if err != nil {
		return errors.Wrap(err, "load orders")
	}

	f := excelize.NewFile()
	sheet := "Sheet1"
	for i, h := range excelHeader {
		cell := fmt.Sprintf("%s1", string(rune('A'+i)))
		f.SetCellValue(sheet, cell, h)
	}
	for n, row := range exportRows(orders) {
		values := []interface{}{
			row.UID, row.CustomerName, row.CustomerPhone, row.Address,
			row.ScheduledDate, row.ScheduledTime, row.Status, row.AssignedTo,
			row.TotalPoints, row.TotalAmount, row.PaidAmount, row.PaymentStatus,
			row.CreatedAt,
		}
		for i, v := range values {
			cell := fmt.Sprintf("%s%d", string(rune('A'+i)), n+2)
			f.SetCellValue(sheet, cell, v)
		}
	}
	return f.Write(w)
}
