// Package validate 注册 gin binding 使用的自定义校验 tag
package validate

import (
	"net/url"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const TagWebhookTarget = "webhook_target"

// Engine 取 gin 默认的 validator 实例
func Engine() (*validator.Validate, bool) {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	return v, ok
}

// RegisterOneOf 注册一个取值受限的 tag，比较时忽略大小写
func RegisterOneOf(v *validator.Validate, tag string, values ...string) error {
	allowed := make(map[string]struct{}, len(values))
	for _, s := range values {
		allowed[strings.ToLower(s)] = struct{}{}
	}
	return v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		_, ok := allowed[strings.ToLower(fl.Field().String())]
		return ok
	})
}

// RegisterWebhookTarget webhook 地址：http(s) 绝对地址或以 / 开头的站内路径
func RegisterWebhookTarget(v *validator.Validate) error {
	return v.RegisterValidation(TagWebhookTarget, func(fl validator.FieldLevel) bool {
		return IsWebhookTarget(fl.Field().String())
	})
}

func IsWebhookTarget(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, "/") {
		return !strings.HasPrefix(s, "//")
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
