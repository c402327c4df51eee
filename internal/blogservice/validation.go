package blogservice

import (
	"strings"

	"github.com/sushihentaime/bloglist/internal/common"
)

func validateNotBlank(v *common.Validator, value, field string) {
	v.Check(strings.TrimSpace(value) != "", field, "must be provided")
}

func validateCreate(v *common.Validator, req *CreateBlogRequest) {
	v.CheckStruct(req)
	validateNotBlank(v, req.Title, "title")
	validateNotBlank(v, req.URL, "url")
}

func validateUpdate(v *common.Validator, req *UpdateBlogRequest) {
	v.CheckStruct(req)
	if req.Title != nil {
		validateNotBlank(v, *req.Title, "title")
	}
	if req.URL != nil {
		validateNotBlank(v, *req.URL, "url")
	}
}
