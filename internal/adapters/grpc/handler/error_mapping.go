package handler

import (
	"strconv"
	"strings"

	"github.com/ogurasousui/employee-directory/internal/core/employee"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/protoadapt"
)

const errorDomain = "employee-directory"

func toStatusError(err error) error {
	if err == nil {
		return nil
	}

	classified := employee.Classify(err)

	var code codes.Code
	switch classified.Kind {
	case employee.KindValidationFailed, employee.KindInvalidArgument:
		code = codes.InvalidArgument
	case employee.KindNotFound:
		code = codes.NotFound
	default:
		code = codes.Internal
	}

	message := classified.Message
	if classified.Kind == employee.KindInternal {
		message = employee.MessageInternal
	}

	details := []protoadapt.MessageV1{
		&errdetails.ErrorInfo{
			Reason: strings.ToUpper(classified.Kind.String()),
			Domain: errorDomain,
			Metadata: map[string]string{
				"label":  classified.CategoryLabel(),
				"status": strconv.Itoa(classified.Status()),
			},
		},
	}
	if len(classified.FieldErrors) > 0 {
		badRequest := &errdetails.BadRequest{}
		for _, fe := range classified.FieldErrors {
			badRequest.FieldViolations = append(badRequest.FieldViolations, &errdetails.BadRequest_FieldViolation{
				Field:       fe.Field,
				Description: fe.Message,
			})
		}
		details = append(details, badRequest)
	}

	st := status.New(code, message)
	withDetails, detailErr := st.WithDetails(details...)
	if detailErr != nil {
		return st.Err()
	}
	return withDetails.Err()
}
