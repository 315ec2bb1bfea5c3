package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/UmaaSadii/ICMS/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoFees       = errors.New("该院系学期暂无学费账单")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportFeeStatus 导出 (院系, 学期) 的缴费状态为 Excel
	ExportFeeStatus(ctx context.Context, departmentID, semesterID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger, now: time.Now}
}

// ═══════════════════════════════════════════════════════════
// ExportFeeStatus 导出缴费状态
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "Fee Status"
//   - 第 1 行标题：院系 / 学期
//   - 第 2 行表头，之后每个学生一行
//   - 末尾汇总行：应收 / 实收 / 欠费合计

func (s *exportService) ExportFeeStatus(ctx context.Context, departmentID, semesterID string) (*bytes.Buffer, string, error) {
	semester, err := s.repo.Semester.GetByID(ctx, semesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.Error(err))
		return nil, "", err
	}
	if semester.DepartmentID != departmentID {
		return nil, "", ErrSemesterDepartmentMatch
	}

	fees, err := s.repo.Fee.ListByDepartmentSemester(ctx, departmentID, semesterID)
	if err != nil {
		s.logger.Error("查询学费账单失败", zap.Error(err))
		return nil, "", err
	}
	if len(fees) == 0 {
		return nil, "", ErrExportNoFees
	}
	summary := buildFeeStatus(departmentID, semesterID, fees, s.now())

	deptName := departmentID
	if semester.Department != nil {
		deptName = semester.Department.Name
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Fee Status"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"Student ID", "Name", "Amount", "Paid", "Balance", "Status", "Due Date", "Overdue"}
	widths := []float64{14, 24, 12, 12, 12, 10, 12, 10}
	for i, w := range widths {
		col := colName(i)
		f.SetColWidth(sheetName, col, col, w)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s - %s Fee Status", deptName, semester.Name))
	f.MergeCell(sheetName, "A1", cell(colName(len(headers)-1), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	row := 2
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), row), h)
	}
	f.SetCellStyle(sheetName, cell("A", row), cell(colName(len(headers)-1), row), headerStyle)

	// 数据行
	row = 3
	for _, item := range summary.Items {
		overdue := "No"
		if item.Overdue {
			overdue = "Yes"
		}
		values := []interface{}{
			item.StudentID, item.StudentName, item.Amount, item.PaidAmount,
			item.Balance, item.Status, item.DueDate, overdue,
		}
		for i, v := range values {
			f.SetCellValue(sheetName, cell(colName(i), row), v)
		}
		row++
	}

	// 汇总行
	f.SetCellValue(sheetName, cell("B", row), "Total")
	f.SetCellValue(sheetName, cell("C", row), summary.TotalAmount)
	f.SetCellValue(sheetName, cell("D", row), summary.TotalCollected)
	f.SetCellValue(sheetName, cell("E", row), summary.TotalBalance)
	f.SetCellValue(sheetName, cell("F", row),
		fmt.Sprintf("%d/%d/%d", summary.PaidCount, summary.PartialCount, summary.UnpaidCount))

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("fee_status_%s_%s.xlsx", deptName, semester.Name)
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
