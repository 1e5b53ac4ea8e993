package models

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Errors  []string    `json:"errors,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func ErrorList(errors ...error) []string {
	list := make([]string, 0, len(errors))
	for _, err := range errors {
		list = append(list, err.Error())
	}
	return list
}
