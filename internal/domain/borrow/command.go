package borrow

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Command 借阅请求参数
// 指针字段区分"未提供"和"零值":lat=0、long=0是合法坐标
type Command struct {
	BookID    *uint    `validate:"required,gt=0"`
	Latitude  *float64 `validate:"required,gte=-90,lte=90"`
	Longitude *float64 `validate:"required,gte=-180,lte=180"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate 校验借阅参数,在任何存储访问之前调用
//
// 校验顺序固定:
// 1. bookId缺失 → MissingField
// 2. latitude或longitude缺失 → MissingField
// 3. latitude越界 → InvalidCoordinate
// 4. longitude越界 → InvalidCoordinate
func (c Command) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	failed := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		failed[fe.StructField()] = fe.Tag()
	}

	if _, ok := failed["BookID"]; ok {
		return ErrBookIDRequired
	}
	if failed["Latitude"] == "required" || failed["Longitude"] == "required" {
		return ErrCoordinatesRequired
	}
	if _, ok := failed["Latitude"]; ok {
		return ErrInvalidLatitude
	}
	return ErrInvalidLongitude
}
