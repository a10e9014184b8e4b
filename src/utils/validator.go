package utils

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// ValidateStruct ตรวจ tag `validate` แล้วคืนข้อความของ field แรกที่ไม่ผ่าน
func ValidateStruct(v interface{}) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		switch fe.Tag() {
		case "required":
			return fmt.Errorf("%s is required", field)
		case "email":
			return fmt.Errorf("%s must be a valid email", field)
		case "min":
			return fmt.Errorf("%s must be at least %s characters", field, fe.Param())
		default:
			return fmt.Errorf("%s is invalid", field)
		}
	}
	return err
}

// ParseObjectID แปลง hex string เป็น ObjectID พร้อมข้อความ error ที่อ่านง่าย
func ParseObjectID(name, hex string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(hex))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid %s", name)
	}
	return oid, nil
}
