package stores

import (
	"maps"
	"slices"
	"strings"
)

// MessageKey names a fallback error message.
type MessageKey string

// Fallback messages, one per operation.
const (
	MsgLoginFailed         MessageKey = "login_failed"
	MsgRegisterFailed      MessageKey = "register_failed"
	MsgLoadProjectsFailed  MessageKey = "load_projects_failed"
	MsgLoadProjectFailed   MessageKey = "load_project_failed"
	MsgCreateProjectFailed MessageKey = "create_project_failed"
	MsgUpdateProjectFailed MessageKey = "update_project_failed"
	MsgDeleteProjectFailed MessageKey = "delete_project_failed"
	MsgAddMemberFailed     MessageKey = "add_member_failed"
	MsgRemoveMemberFailed  MessageKey = "remove_member_failed"
	MsgLoadTasksFailed     MessageKey = "load_tasks_failed"
	MsgCreateTaskFailed    MessageKey = "create_task_failed"
	MsgUpdateTaskFailed    MessageKey = "update_task_failed"
	MsgDeleteTaskFailed    MessageKey = "delete_task_failed"
)

// DefaultLocale is used for unknown locales.
const DefaultLocale = "en"

// Catalog maps message keys to text in one language.
type Catalog map[MessageKey]string

var catalogs = map[string]Catalog{
	"en": {
		MsgLoginFailed:         "Login failed",
		MsgRegisterFailed:      "Registration failed",
		MsgLoadProjectsFailed:  "Failed to load projects",
		MsgLoadProjectFailed:   "Failed to load project",
		MsgCreateProjectFailed: "Failed to create project",
		MsgUpdateProjectFailed: "Failed to update project",
		MsgDeleteProjectFailed: "Failed to delete project",
		MsgAddMemberFailed:     "Failed to add member",
		MsgRemoveMemberFailed:  "Failed to remove member",
		MsgLoadTasksFailed:     "Failed to load tasks",
		MsgCreateTaskFailed:    "Failed to create task",
		MsgUpdateTaskFailed:    "Failed to update task",
		MsgDeleteTaskFailed:    "Failed to delete task",
	},
	"ru": {
		MsgLoginFailed:         "Ошибка входа",
		MsgRegisterFailed:      "Ошибка регистрации",
		MsgLoadProjectsFailed:  "Ошибка загрузки проектов",
		MsgLoadProjectFailed:   "Ошибка загрузки проекта",
		MsgCreateProjectFailed: "Ошибка создания проекта",
		MsgUpdateProjectFailed: "Ошибка обновления проекта",
		MsgDeleteProjectFailed: "Ошибка удаления проекта",
		MsgAddMemberFailed:     "Ошибка добавления участника",
		MsgRemoveMemberFailed:  "Ошибка удаления участника",
		MsgLoadTasksFailed:     "Ошибка загрузки задач",
		MsgCreateTaskFailed:    "Ошибка создания задачи",
		MsgUpdateTaskFailed:    "Ошибка обновления задачи",
		MsgDeleteTaskFailed:    "Ошибка удаления задачи",
	},
}

// CatalogFor returns the catalog for locale ("ru", "ru_RU.UTF-8", ...),
// falling back to English.
func CatalogFor(locale string) Catalog {
	lang := strings.ToLower(locale)
	if i := strings.IndexAny(lang, "_-."); i >= 0 {
		lang = lang[:i]
	}
	if c, ok := catalogs[lang]; ok {
		return c
	}
	return catalogs[DefaultLocale]
}

// Locales lists the supported locales.
func Locales() []string {
	return slices.Sorted(maps.Keys(catalogs))
}

// Text returns the message for key, in English if c lacks it.
func (c Catalog) Text(key MessageKey) string {
	if s, ok := c[key]; ok {
		return s
	}
	if s, ok := catalogs[DefaultLocale][key]; ok {
		return s
	}
	return string(key)
}
