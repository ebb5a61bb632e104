package bank

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadXLSX reads a workbook where every sheet is one topic. The first row
// is a header naming the columns: id, prompt (or question), one or more
// option columns, correct (1-based number or letter) and an optional
// explanation.
func LoadXLSX(path string) (*Bank, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return readWorkbook(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), f)
}

// ReadXLSX is LoadXLSX for an already open stream.
func ReadXLSX(title string, r io.Reader) (*Bank, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return readWorkbook(title, f)
}

type columns struct {
	id, prompt, correct, explanation int
	options                          []int
}

func readWorkbook(title string, f *excelize.File) (*Bank, error) {
	var pools []TopicPool
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		if len(rows) < 2 {
			continue
		}

		cols, err := parseHeader(rows[0])
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheet, err)
		}

		pool := TopicPool{ID: slug(sheet), Title: sheet}
		for i, row := range rows[1:] {
			if blankRow(row) {
				continue
			}
			q, err := parseRow(cols, row)
			if err != nil {
				return nil, fmt.Errorf("sheet %q row %d: %w", sheet, i+2, err)
			}
			if q.ID == "" {
				q.ID = fmt.Sprintf("%s-%d", pool.ID, len(pool.Questions)+1)
			}
			pool.Questions = append(pool.Questions, q)
		}
		pools = append(pools, pool)
	}
	return New(title, pools)
}

func parseHeader(header []string) (columns, error) {
	c := columns{id: -1, prompt: -1, correct: -1, explanation: -1}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		switch {
		case name == "id":
			c.id = i
		case name == "prompt" || name == "question":
			c.prompt = i
		case name == "correct" || name == "answer":
			c.correct = i
		case name == "explanation":
			c.explanation = i
		case strings.HasPrefix(name, "option"):
			c.options = append(c.options, i)
		}
	}
	if c.prompt < 0 || c.correct < 0 || len(c.options) == 0 {
		return c, fmt.Errorf("header needs prompt, option and correct columns")
	}
	return c, nil
}

func parseRow(c columns, row []string) (Question, error) {
	cell := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	q := Question{
		ID:          cell(c.id),
		Prompt:      cell(c.prompt),
		Explanation: cell(c.explanation),
	}
	for _, i := range c.options {
		if v := cell(i); v != "" {
			q.Options = append(q.Options, v)
		}
	}

	raw := cell(c.correct)
	if n, err := strconv.Atoi(raw); err == nil {
		q.CorrectAnswer = n - 1
	} else if len(raw) == 1 && strings.ToUpper(raw) >= "A" && strings.ToUpper(raw) <= "Z" {
		q.CorrectAnswer = int(strings.ToUpper(raw)[0] - 'A')
	} else {
		return q, fmt.Errorf("correct answer %q is neither a number nor a letter", raw)
	}
	return q, nil
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
