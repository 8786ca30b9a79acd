package core

type ListTasksFilter struct {
	Status   *TaskStatus `json:"status"`
	ClientID *int64      `json:"client_id"`
	HelperID *int64      `json:"helper_id"`
	Limit    int         `json:"limit"`
	Offset   int         `json:"offset"`
}
