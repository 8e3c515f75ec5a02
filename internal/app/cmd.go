package app

// Command はCLIのサブコマンドを表す。
type Command string

const (
	// CommandLogin はログインしてセッションを保存する。
	CommandLogin Command = "login"
	// CommandRegister は従業員ユーザーを登録する。
	CommandRegister Command = "register"
	// CommandLogout はセッションを破棄する。
	CommandLogout Command = "logout"
	// CommandWhoami はログイン中のユーザーを表示する。
	CommandWhoami Command = "whoami"
	// CommandDashboard はダッシュボードを表示する。
	CommandDashboard Command = "dashboard"
	// CommandAttendance は当日の打刻状態を表示する。
	CommandAttendance Command = "attendance"
	// CommandCheckIn は出勤を打刻する。
	CommandCheckIn Command = "check-in"
	// CommandCheckOut は退勤を打刻する。
	CommandCheckOut Command = "check-out"
	// CommandHistory は勤怠履歴を表示する。
	CommandHistory Command = "history"
	// CommandAdmin は全従業員の勤怠を表示する（管理者のみ）。
	CommandAdmin Command = "admin"
	// CommandTheme はテーマ設定を表示・変更する。
	CommandTheme Command = "theme"
	// CommandMigrate はクライアント状態DBのマイグレーションを実行する。
	CommandMigrate Command = "migrate"
	// CommandDevServer は開発用バックエンドを起動する。
	CommandDevServer Command = "devserver"
	// CommandHealthcheck は開発用バックエンドのヘルスチェックを実行する。
	// distroless環境でのDockerヘルスチェック用。
	CommandHealthcheck Command = "healthcheck"
	// CommandHelp は使い方を表示する。
	CommandHelp Command = "help"
)

var commands = map[string]Command{
	"login":       CommandLogin,
	"register":    CommandRegister,
	"logout":      CommandLogout,
	"whoami":      CommandWhoami,
	"dashboard":   CommandDashboard,
	"attendance":  CommandAttendance,
	"check-in":    CommandCheckIn,
	"check-out":   CommandCheckOut,
	"history":     CommandHistory,
	"admin":       CommandAdmin,
	"theme":       CommandTheme,
	"migrate":     CommandMigrate,
	"devserver":   CommandDevServer,
	"healthcheck": CommandHealthcheck,
	"help":        CommandHelp,
	"-h":          CommandHelp,
	"--help":      CommandHelp,
}

// ParseCommand はコマンドライン引数からサブコマンドと残りの引数を解析する。
// 引数が空またはサポート外のコマンドの場合はCommandHelpを返す。
func ParseCommand(args []string) (Command, []string) {
	if len(args) == 0 {
		return CommandHelp, nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return CommandHelp, args[1:]
	}
	return cmd, args[1:]
}

// needsClientState はクライアント状態DBを開く必要があるかを返す。
func (c Command) needsClientState() bool {
	switch c {
	case CommandMigrate, CommandDevServer, CommandHealthcheck, CommandHelp:
		return false
	default:
		return true
	}
}

const usage = `Usage: atency <command> [flags]

Commands:
  login -u NAME -p PASS              sign in
  register --name N -u U -p P        create an employee account
  logout                             sign out
  whoami                             show the signed-in user
  dashboard                          weekly overview
  attendance                         today's check-in status
  check-in [--yes]                   record check-in
  check-out [--yes]                  record check-out
  history [--q Q] [--status S]       your records (S: ALL, PRESENT, ABSENT)
  admin [--user ID] [--export F]     all employees (admin only)
  theme [light|dark|toggle]          show or change the theme
  migrate                            prepare the local state database
  devserver                          run the development backend
  healthcheck                        check the development backend
`
