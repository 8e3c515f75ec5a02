// Package view は画面表示用のビューモデルを組み立てる純粋関数群を提供する。
// 入力は保存済みセッション状態とAPIの結果のみで、I/Oは行わない。
package view

// 画面に表示する定型メッセージ
const (
	MsgLoginRequired      = "Please enter your username and password."
	MsgLoginFailed        = "Login failed."
	MsgLoginWelcome       = "Welcome back to Atency"
	MsgRegisterFailed     = "Registration failed."
	MsgRegisterSucceeded  = "Account created successfully."
	MsgRegisterWelcome    = "Welcome to Atency"
	MsgDashboardFailed    = "Unable to load dashboard data."
	MsgAttendanceFailed   = "Unable to load attendance state."
	MsgCheckInRecorded    = "Check-in recorded"
	MsgCheckInFailed      = "Check-in failed."
	MsgCheckOutRecorded   = "Check-out recorded"
	MsgCheckOutFailed     = "Check-out failed."
	MsgHistoryFailed      = "Unable to load attendance history."
	MsgAdminFailed        = "Unable to load admin data."
	MsgEmployeeFailed     = "Unable to load employee attendance."
	MsgEmployeeUpdated    = "Attendance details updated"
	MsgSomethingWentWrong = "Something went wrong"
)

// Confirmation は確認ダイアログの文言。
type Confirmation struct {
	Title string
	Body  string
}

var (
	// ConfirmCheckIn は出勤打刻前の確認。
	ConfirmCheckIn = Confirmation{Title: "Confirm Check-in", Body: "Ready to log your check-in for today?"}
	// ConfirmCheckOut は退勤打刻前の確認。
	ConfirmCheckOut = Confirmation{Title: "Confirm Check-out", Body: "Ready to log your check-out for today?"}
)
