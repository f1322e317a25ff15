/*
 * @module service/qc/exporter
 * @description 网格导出：带UTF-8 BOM的分号CSV（Excel兼容）、回读解析与xlsx变体
 * @architecture 分层架构 - 质控引擎层
 * @documentReference dev_docs/qc_tracking_requirements.md
 * @stateFlow 合规网格 -> 一行一周期/一列一机器的表格 -> CSV/XLSX字节流
 * @rules 单元格写状态枚举词而非展示符号；导出再解析必须还原(周期,机器)->状态映射
 * @dependencies encoding/csv, golang.org/x/text, github.com/xuri/excelize/v2
 * @refs service/qc/bucketer.go
 */

package qc

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"qctrack-service/service/models"
)

// GridKey 导出表中一个单元格的定位键
type GridKey struct {
	Label   string
	Year    int
	Machine string
}

// WriteGridCSV 将网格写成分号分隔、带UTF-8 BOM的CSV
// 首两列为周期标签与年份，其后每机器一列
func WriteGridCSV(w io.Writer, grid *models.ComplianceGrid) error {
	// BOM由编码器写入，表格软件据此识别UTF-8
	bomWriter := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	writer := csv.NewWriter(bomWriter)
	writer.Comma = ';'

	header := append([]string{"Periode", "Annee"}, grid.Machines...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("写CSV表头失败: %w", err)
	}

	for _, row := range grid.Rows {
		record := make([]string, 0, len(header))
		record = append(record, row.Period.Label, strconv.Itoa(row.Period.Year))
		for _, machine := range grid.Machines {
			record = append(record, string(row.Cells[machine]))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("写CSV行失败: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("刷新CSV失败: %w", err)
	}
	return bomWriter.Close()
}

// ParseGridCSV 回读导出的CSV，重建(周期,机器)->状态映射
func ParseGridCSV(r io.Reader) (map[GridKey]models.CellStatus, error) {
	reader := csv.NewReader(transform.NewReader(r, unicode.UTF8BOM.NewDecoder()))
	reader.Comma = ';'

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("读CSV失败: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV为空")
	}

	header := rows[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("CSV表头缺少周期与年份列")
	}
	machines := header[2:]

	cells := make(map[GridKey]models.CellStatus)
	for _, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("CSV行列数不一致: %v", row)
		}
		year, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("非法年份 %q: %w", row[1], err)
		}
		for i, machine := range machines {
			status, err := models.ParseCellStatus(row[2+i])
			if err != nil {
				return nil, err
			}
			cells[GridKey{Label: row[0], Year: year, Machine: machine}] = status
		}
	}
	return cells, nil
}

// GenerateGridXLSX 生成网格的xlsx字节流，内容与CSV一致
func GenerateGridXLSX(grid *models.ComplianceGrid) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := grid.Category
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, fmt.Errorf("创建工作表失败: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("删除默认工作表失败: %w", err)
	}

	header := append([]string{"Periode", "Annee"}, grid.Machines...)
	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}

	for i, row := range grid.Rows {
		values := make([]interface{}, 0, len(header))
		values = append(values, row.Period.Label, row.Period.Year)
		for _, machine := range grid.Machines {
			values = append(values, string(row.Cells[machine]))
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("写xlsx失败: %w", err)
	}
	return buf.Bytes(), nil
}
