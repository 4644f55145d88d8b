package notification

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

var bearer = []map[string][]string{{"bearer": {}}}

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "notifications-list",
		Method:      http.MethodGet,
		Path:        "/api/notifications",
		Summary:     "Список уведомлений",
		Tags:        []string{"notifications"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}

func (h *Handler) statsOp() huma.Operation {
	return huma.Operation{
		OperationID: "notifications-stats",
		Method:      http.MethodGet,
		Path:        "/api/notifications-stats",
		Summary:     "Статистика уведомлений",
		Tags:        []string{"notifications"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}

func (h *Handler) actionOp() huma.Operation {
	return huma.Operation{
		OperationID: "notifications-action",
		Method:      http.MethodPut,
		Path:        "/api/notifications/{id}/{action}",
		Summary:     "Изменение статуса уведомления",
		Tags:        []string{"notifications"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}

func (h *Handler) markAllReadOp() huma.Operation {
	return huma.Operation{
		OperationID: "notifications-mark-all-read",
		Method:      http.MethodPut,
		Path:        "/api/notifications/mark-all-read",
		Summary:     "Отметить все уведомления прочитанными",
		Tags:        []string{"notifications"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "notifications-delete",
		Method:      http.MethodDelete,
		Path:        "/api/notifications/{id}",
		Summary:     "Удаление уведомления",
		Tags:        []string{"notifications"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}

func (h *Handler) bulkDeleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "notifications-bulk-delete",
		Method:      http.MethodDelete,
		Path:        "/api/notifications/bulk-delete",
		Summary:     "Удаление нескольких уведомлений",
		Tags:        []string{"notifications"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}
