package consts

const (
	// MaxPageSize 分页大小上限，超出时收敛而非报错
	MaxPageSize = 100

	// DefaultPageSize 列表接口缺省分页大小
	DefaultPageSize = 5
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)
