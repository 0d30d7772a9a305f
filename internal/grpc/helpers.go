package grpc

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Common errors for gRPC handlers
var (
	ErrMissingField = errors.New("missing field")
	ErrInvalidField = errors.New("invalid field")
)

func stringField(s *structpb.Struct, name string) (string, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	str, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", ErrInvalidField, name)
	}
	return str.StringValue, nil
}

// uint64Field accepts a whole number or a decimal string.
func uint64Field(s *structpb.Struct, name string) (uint64, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := k.NumberValue
		if n < 0 || n != math.Trunc(n) || n > 1<<53 {
			return 0, fmt.Errorf("%w: %s must be a whole number", ErrInvalidField, name)
		}
		return uint64(n), nil
	case *structpb.Value_StringValue:
		n, err := strconv.ParseUint(k.StringValue, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrInvalidField, name, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidField, name)
	}
}

func accountField(s *structpb.Struct, name string) (types.AccountID, error) {
	str, err := stringField(s, name)
	if err != nil {
		return types.ZeroAccount, err
	}
	id, err := types.ParseAccountID(str)
	if err != nil {
		return types.ZeroAccount, fmt.Errorf("%w: %s: %v", ErrInvalidField, name, err)
	}
	return id, nil
}

// invalidArgument maps request parsing errors to codes.InvalidArgument.
func invalidArgument(err error) error {
	return status.Error(codes.InvalidArgument, err.Error())
}

func internalError(err error) error {
	return status.Error(codes.Internal, err.Error())
}

func amountValue(a types.Amount, decimals int32) map[string]interface{} {
	return map[string]interface{}{
		"value":   a.String(),
		"display": a.Display(decimals),
	}
}

func offerValue(o entry.Offer, decimals int32) map[string]interface{} {
	return map[string]interface{}{
		"collection":    o.Collection.String(),
		"offer_id":      o.ID,
		"maker":         o.Maker.String(),
		"amount":        amountValue(o.Amount, decimals),
		"prev_offer_id": o.PrevID,
		"next_offer_id": o.NextID,
	}
}

func bookValue(b entry.Book, decimals int32) map[string]interface{} {
	return map[string]interface{}{
		"collection":       b.Collection.String(),
		"floor_offer_id":   b.FloorID,
		"ceiling_offer_id": b.CeilingID,
		"floor_amount":     amountValue(b.FloorAmount, decimals),
		"ceiling_amount":   amountValue(b.CeilingAmount, decimals),
		"offer_count":      b.OfferCount,
		"active":           b.Active,
		"escrowed":         amountValue(b.Escrowed, decimals),
	}
}

func newStruct(m map[string]interface{}) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, internalError(err)
	}
	return s, nil
}
