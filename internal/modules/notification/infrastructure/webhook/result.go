package webhook

import "fmt"

// TargetKind 回调地址分类
type TargetKind string

const (
	KindNone             TargetKind = "none"
	KindInternalRelative TargetKind = "internal_relative"
	KindInternalSameHost TargetKind = "internal_same_host"
	KindExternal         TargetKind = "external"
)

type Outcome string

const (
	OutcomeDelivered       Outcome = "delivered"
	OutcomeFailed          Outcome = "failed"
	OutcomeSkippedNoTarget Outcome = "skipped_no_target"
)

// Reason 失败原因，成功时为空
type Reason string

const (
	ReasonNone       Reason = ""
	ReasonTimeout    Reason = "timeout"
	ReasonDNS        Reason = "dns"
	ReasonConnection Reason = "connection"
	ReasonHTTPStatus Reason = "http_status"
	ReasonEncode     Reason = "encode"
	ReasonInternal   Reason = "internal"
	ReasonNoRoute    Reason = "no_route"
	ReasonLookup     Reason = "lookup"
	ReasonBadTarget  Reason = "bad_target"
)

// Result 一次投递的结果，不持久化，只用于日志和指标
type Result struct {
	RecipientID string     `json:"recipient_id"`
	Target      string     `json:"target,omitempty"`
	Kind        TargetKind `json:"target_kind"`
	Outcome     Outcome    `json:"outcome"`
	Reason      Reason     `json:"reason,omitempty"`
	StatusCode  int        `json:"status_code,omitempty"`
	Err         error      `json:"-"`
}

func (r Result) Delivered() bool {
	return r.Outcome == OutcomeDelivered
}

func (r Result) String() string {
	if r.Outcome == OutcomeFailed {
		return fmt.Sprintf("%s %s (%s) status=%d: %v", r.Kind, r.Outcome, r.Reason, r.StatusCode, r.Err)
	}
	return fmt.Sprintf("%s %s", r.Kind, r.Outcome)
}
