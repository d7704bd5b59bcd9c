package domain

// HasRole 所有角色判断都走这里
func HasRole(u *User, roles ...string) bool {
	if u == nil {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

func IsAdmin(u *User) bool { return HasRole(u, RoleAdmin) }

// CanModifyTask 指派人或管理员可以改状态/清单
func CanModifyTask(u *User, t *Task) bool {
	if u == nil || t == nil {
		return false
	}
	return IsAdmin(u) || t.IsAssignee(u.ID)
}

// VisibilityFilter 非管理员只能看到指派给自己的任务
func VisibilityFilter(u *User) TaskFilter {
	if IsAdmin(u) {
		return TaskFilter{}
	}
	return TaskFilter{AssigneeID: u.ID}
}
