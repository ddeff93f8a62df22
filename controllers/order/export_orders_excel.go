package orderControllers

import (
	"net/http"

	"github.com/Adi-Narayan/Hashira/controllers"
	"github.com/Adi-Narayan/Hashira/models"
	"github.com/Adi-Narayan/Hashira/service"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"
)

var exportHeaders = []string{
	"ID", "Date", "UserID", "Customer", "PaymentMethod", "Paid",
	"Status", "Amount", "TxnID", "Items",
}

// BuildOrdersWorkbook lays out one row per order under a header row.
func BuildOrdersWorkbook(orders []models.Order) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return nil, err
	}

	headerRow := sheet.AddRow()
	for _, h := range exportHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetValue(o.ID)
		row.AddCell().SetValue(o.Date.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(o.UserID)
		row.AddCell().SetValue(o.Address.FullName())
		row.AddCell().SetValue(o.PaymentMethod)
		row.AddCell().SetBool(o.Payment)
		row.AddCell().SetValue(o.Status)
		row.AddCell().SetFloatWithFormat(o.Amount, "0.00")
		row.AddCell().SetValue(o.TxnID)
		row.AddCell().SetValue(o.ItemSummary())
	}
	return file, nil
}

// GET /api/order/export (admin)
func ExportOrdersToExcel(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := orders.List(c.Request.Context(), c.Query("userId"))
		if err != nil {
			controllers.Fail(c, err)
			return
		}

		file, err := BuildOrdersWorkbook(list)
		if err != nil {
			controllers.Fail(c, err)
			return
		}

		c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")
		c.Status(http.StatusOK)

		if err := file.Write(c.Writer); err != nil {
			zap.L().Error("failed to write order export", zap.String("namespace", "export"), zap.Error(err))
		}
	}
}
