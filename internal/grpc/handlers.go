package grpc

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/LeJamon/goMarketd/internal/core/collectionoffers"
	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "marketd.v1.CollectionOffers"

// MaxBookOffers caps the offers returned by GetBook.
const MaxBookOffers = 1000

// CollectionOffersServer is the server API of ServiceName.
type CollectionOffersServer interface {
	GetOffer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetBook(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Submit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(CollectionOffersServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CollectionOffersServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + ServiceName + "/" + method,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(CollectionOffersServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes ServiceName for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CollectionOffersServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetOffer", Handler: unaryHandler("GetOffer", CollectionOffersServer.GetOffer)},
		{MethodName: "GetBook", Handler: unaryHandler("GetBook", CollectionOffersServer.GetBook)},
		{MethodName: "Submit", Handler: unaryHandler("Submit", CollectionOffersServer.Submit)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "marketd/v1/collection_offers.proto",
}

// GetOffer returns one offer. Request: {collection, offer_id}.
func (s *Server) GetOffer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	collection, err := accountField(req, "collection")
	if err != nil {
		return nil, invalidArgument(err)
	}
	offerID, err := uint64Field(req, "offer_id")
	if err != nil {
		return nil, invalidArgument(err)
	}

	l := s.engine.Ledger()
	o, found, err := collectionoffers.Offer(l, collection, offerID)
	if err != nil {
		return nil, internalError(err)
	}
	if found {
		return newStruct(map[string]interface{}{
			"offer":        offerValue(o, s.config.Decimals),
			"offer_status": "pending",
		})
	}

	st, settled, err := collectionoffers.OfferStatus(l, collection, offerID)
	if err != nil {
		return nil, internalError(err)
	}
	if !settled {
		return nil, status.Errorf(codes.NotFound, "offer %d not found", offerID)
	}
	return newStruct(map[string]interface{}{
		"collection":   collection.String(),
		"offer_id":     offerID,
		"offer_status": st.String(),
	})
}

// GetBook returns a book summary and its offers floor first.
// Request: {collection, limit?}.
func (s *Server) GetBook(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	collection, err := accountField(req, "collection")
	if err != nil {
		return nil, invalidArgument(err)
	}
	limit := uint64(MaxBookOffers)
	if _, ok := req.GetFields()["limit"]; ok {
		if limit, err = uint64Field(req, "limit"); err != nil {
			return nil, invalidArgument(err)
		}
		if limit == 0 || limit > MaxBookOffers {
			limit = MaxBookOffers
		}
	}

	l := s.engine.Ledger()
	book, err := collectionoffers.Book(l, collection)
	if err != nil {
		return nil, internalError(err)
	}
	offers := make([]interface{}, 0)
	err = collectionoffers.Walk(l, collection, func(o entry.Offer) bool {
		if uint64(len(offers)) == limit {
			return false
		}
		offers = append(offers, offerValue(o, s.config.Decimals))
		return true
	})
	if err != nil {
		return nil, internalError(err)
	}

	return newStruct(map[string]interface{}{
		"book":   bookValue(book, s.config.Decimals),
		"offers": offers,
	})
}

// Submit applies a signed transaction. Request: {tx_json, SigningPubKey,
// TxnSignature} where tx_json is the exact signed JSON text.
func (s *Server) Submit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var signed tx.SignedTx
	body, err := stringField(req, "tx_json")
	if err != nil {
		return nil, invalidArgument(err)
	}
	signed.TxJSON = json.RawMessage(body)
	if signed.SigningPubKey, err = stringField(req, "SigningPubKey"); err != nil {
		return nil, invalidArgument(err)
	}
	if signed.TxnSignature, err = stringField(req, "TxnSignature"); err != nil {
		return nil, invalidArgument(err)
	}

	t, err := signed.Decode()
	var res tx.ApplyResult
	switch {
	case errors.Is(err, tx.ErrBadSignature), errors.Is(err, tx.ErrAccountMismatch):
		res = tx.ApplyResult{Result: tx.TefBAD_SIGNATURE}
	case err != nil:
		return nil, invalidArgument(err)
	default:
		res = s.engine.Apply(t)
	}

	out := map[string]interface{}{
		"engine_result":         res.Result.String(),
		"engine_result_code":    int64(res.Result),
		"engine_result_message": res.Result.Message(),
		"applied":               res.Applied,
	}
	if res.Applied {
		out["tx_hash"] = res.TxHashHex()
		out["sequence"] = res.Sequence
	}
	return newStruct(out)
}

var _ CollectionOffersServer = (*Server)(nil)
