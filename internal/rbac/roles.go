package rbac

type Role string

const (
	RoleDean      Role = "Dean"
	RoleProfessor Role = "Professor"
	RoleStudent   Role = "Student"
)

var AllRoles = []Role{
	RoleDean,
	RoleProfessor,
	RoleStudent,
}

func (r Role) IsValid() bool {
	for _, v := range AllRoles {
		if r == v {
			return true
		}
	}
	return false
}

func (r Role) IsStaff() bool {
	return r == RoleDean || r == RoleProfessor
}

const (
	PermAccountsManage = "accounts:manage"
	PermSectionsManage = "sections:manage"
	PermSectionsRead   = "sections:read"
	PermTestsAuthor    = "tests:author"
	PermTestsReport    = "tests:report"
	PermTestsTake      = "tests:take"
)

// RolePermissions maps each role to the permissions it holds. A trailing * matches a prefix.
var RolePermissions = map[Role][]string{
	RoleDean:      {"accounts:*", "sections:*", "tests:author", "tests:report"},
	RoleProfessor: {PermSectionsRead, PermTestsAuthor, PermTestsReport},
	RoleStudent:   {PermTestsTake},
}
