package domain

import "fmt"

// AccountPurpose identifies a well-known account role in the chart of accounts.
type AccountPurpose string

const (
	PurposeCash            AccountPurpose = "CASH"
	PurposeBank            AccountPurpose = "BANK"
	PurposeStudentAR       AccountPurpose = "STUDENT_AR"
	PurposeCourseDeferred  AccountPurpose = "COURSE_DEFERRED"
	PurposeCourseRevenue   AccountPurpose = "COURSE_REVENUE"
	PurposeTeacherSalary   AccountPurpose = "TEACHER_SALARY"
	PurposeEmployeeSalary  AccountPurpose = "EMPLOYEE_SALARY"
	PurposeTeacherDues     AccountPurpose = "TEACHER_DUES"
	PurposeEmployeeAdvance AccountPurpose = "EMPLOYEE_ADVANCE"
	PurposeTeacherAdvance  AccountPurpose = "TEACHER_ADVANCE"
)

// AccountSpec describes a well-known account to materialize lazily.
type AccountSpec struct {
	Code        string
	Name        string
	NameAr      string
	AccountType AccountType
	ParentCode  string // empty for top-level accounts
}

// chartEntry is a row of the well-known-code table. Parent prefixes are
// disjoint across entity kinds so owner-scoped child codes never collide.
type chartEntry struct {
	code        string
	name        string
	nameAr      string
	accountType AccountType
	childName   string // fmt pattern taking the owner label, empty if not owner-scoped
	childNameAr string
}

var chart = map[AccountPurpose]chartEntry{
	PurposeCash:            {"121", "Cash", "النقدية", Asset, "", ""},
	PurposeBank:            {"1120", "Bank Account", "حساب البنك", Asset, "", ""},
	PurposeStudentAR:       {"1251", "Accounts Receivable - Students", "ذمم الطلاب المدينة", Asset, "AR - %s", "ذمة %s"},
	PurposeCourseDeferred:  {"21", "Deferred Revenue - Courses", "إيرادات مؤجلة - الدورات", Liability, "Deferred Revenue - %s", "إيرادات مؤجلة - %s"},
	PurposeCourseRevenue:   {"4101", "Course Revenue", "إيرادات الدورات", Revenue, "Course Revenue - %s", "إيرادات دورة - %s"},
	PurposeTeacherSalary:   {"501", "Teacher Salaries", "رواتب المدرسين", Expense, "Salary Expense - %s", "راتب - %s"},
	PurposeEmployeeSalary:  {"502", "Employee Salaries", "رواتب الموظفين", Expense, "Salary Expense - %s", "راتب - %s"},
	PurposeTeacherDues:     {"22", "Teacher Dues", "مستحقات المدرسين", Liability, "Teacher Dues - %s", "مستحقات %s"},
	PurposeEmployeeAdvance: {"1241", "Employee Advances", "سلف الموظفين", Asset, "Employee Advance - %s", "سلفة %s"},
	PurposeTeacherAdvance:  {"1242", "Teacher Advances", "سلف المدرسين", Asset, "Teacher Advance - %s", "سلفة %s"},
}

// WellKnownParent returns the spec of the shared parent account for a purpose.
func WellKnownParent(purpose AccountPurpose) AccountSpec {
	e := chart[purpose]
	return AccountSpec{
		Code:        e.code,
		Name:        e.name,
		NameAr:      e.nameAr,
		AccountType: e.accountType,
	}
}

// WellKnownAccount returns the spec of the owner-scoped child account for a
// purpose. The child code embeds the owning entity's id zero-padded to three
// digits, e.g. "1251-007" for student 7.
func WellKnownAccount(purpose AccountPurpose, ownerID int64, ownerLabel string) AccountSpec {
	e := chart[purpose]
	if e.childName == "" {
		return WellKnownParent(purpose)
	}
	return AccountSpec{
		Code:        fmt.Sprintf("%s-%03d", e.code, ownerID),
		Name:        fmt.Sprintf(e.childName, ownerLabel),
		NameAr:      fmt.Sprintf(e.childNameAr, ownerLabel),
		AccountType: e.accountType,
		ParentCode:  e.code,
	}
}
