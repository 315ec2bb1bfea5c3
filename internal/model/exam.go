package model

import "strings"

// ExamType 考试类型（封闭枚举），数据库中保存规范编码
type ExamType string

const (
	ExamQuiz1       ExamType = "quiz1"
	ExamQuiz2       ExamType = "quiz2"
	ExamAssignment1 ExamType = "assignment1"
	ExamAssignment2 ExamType = "assignment2"
	ExamMidterm     ExamType = "midterm"
	ExamFinal       ExamType = "final"
)

// 各组成部分满分
const (
	QuizMaxMarks       = 5.0
	AssignmentMaxMarks = 5.0
	MidtermMaxMarks    = 25.0
	FinalPaperMaxMarks = 60.0
	// FinalTotalMarks 期末成绩汇总全部组成部分：5+5+5+5+25+60
	FinalTotalMarks = 100.0
)

// ParseExamType 将自由文本解析为考试类型
// 依次匹配 quiz / assignment / mid / final，含 "2" 时取第二个测验或作业槽位；
// 无法识别的文本按期中处理
func ParseExamType(raw string) ExamType {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(s, "quiz"):
		if strings.Contains(s, "2") {
			return ExamQuiz2
		}
		return ExamQuiz1
	case strings.Contains(s, "assignment"):
		if strings.Contains(s, "2") {
			return ExamAssignment2
		}
		return ExamAssignment1
	case strings.Contains(s, "mid"):
		return ExamMidterm
	case strings.Contains(s, "final"):
		return ExamFinal
	default:
		return ExamMidterm
	}
}

// MaxMarks 该类型的满分
func (t ExamType) MaxMarks() float64 {
	switch t {
	case ExamQuiz1, ExamQuiz2:
		return QuizMaxMarks
	case ExamAssignment1, ExamAssignment2:
		return AssignmentMaxMarks
	case ExamFinal:
		return FinalTotalMarks
	default:
		return MidtermMaxMarks
	}
}

// IsFinal 是否期末
func (t ExamType) IsFinal() bool { return t == ExamFinal }

// Label 展示名称
func (t ExamType) Label() string {
	switch t {
	case ExamQuiz1:
		return "Quiz 1"
	case ExamQuiz2:
		return "Quiz 2"
	case ExamAssignment1:
		return "Assignment 1"
	case ExamAssignment2:
		return "Assignment 2"
	case ExamFinal:
		return "Final"
	default:
		return "Mid Term"
	}
}

// gradeBands 百分比 → 等级，自上而下首个满足的阈值生效
var gradeBands = []struct {
	min   float64
	grade string
}{
	{90, "A+"},
	{85, "A"},
	{80, "A-"},
	{75, "B+"},
	{70, "B"},
	{65, "B-"},
	{60, "C+"},
	{55, "C"},
	{50, "C-"},
	{45, "D+"},
	{40, "D"},
}

// GradeFail 不及格等级
const GradeFail = "F"

// GradeForPercentage 百分比对应的字母等级
func GradeForPercentage(pct float64) string {
	for _, b := range gradeBands {
		if pct >= b.min {
			return b.grade
		}
	}
	return GradeFail
}

// GradePointForPercentage 单条成绩的 GPA 绩点
func GradePointForPercentage(pct float64) float64 {
	switch {
	case pct >= 85:
		return 4.0
	case pct >= 75:
		return 3.5
	case pct >= 65:
		return 3.0
	case pct >= 55:
		return 2.5
	case pct >= 50:
		return 2.0
	default:
		return 0.0
	}
}

var letterPoints = map[string]float64{
	"A+": 4.0, "A": 4.0, "A-": 3.7,
	"B+": 3.3, "B": 3.0, "B-": 2.7,
	"C+": 2.3, "C": 2.0, "C-": 1.7,
	"D+": 1.3, "D": 1.0,
	"F": 0.0,
}

// LetterGradePoints 字母等级对应的学分绩点，未知等级按 0 处理
func LetterGradePoints(grade string) float64 {
	return letterPoints[strings.ToUpper(strings.TrimSpace(grade))]
}
