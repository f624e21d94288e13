package news

import (
	"github.com/DjordjeVuckovic/daily-news/internal/apperr"
	"github.com/DjordjeVuckovic/daily-news/internal/domain"
)

type Status int

const (
	StatusLoading Status = iota
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Resource is one state of a headline or search request.
// Terminal marks the last state a stream emits.
type Resource struct {
	Status   Status           `json:"status"`
	Articles []domain.Article `json:"articles,omitempty"`
	Message  string           `json:"message,omitempty"`
	Err      error            `json:"-"`
	Terminal bool             `json:"terminal"`
}

func loading() Resource {
	return Resource{Status: StatusLoading}
}

func success(articles []domain.Article, terminal bool) Resource {
	return Resource{Status: StatusSuccess, Articles: articles, Terminal: terminal}
}

func failure(err error) Resource {
	return Resource{Status: StatusError, Message: apperr.UserMessage(err), Err: err, Terminal: true}
}

// Last drains states and returns the final one.
func Last(states <-chan Resource) Resource {
	var last Resource
	for r := range states {
		last = r
	}
	return last
}
