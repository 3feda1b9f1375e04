package ledger

import (
	"context"
	"encoding/json"
	"github.com/NautilusNFTs/nautilus-interface/internal/txn"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"testing"
)

type gatewayRequest struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
	Id     int64             `json:"id"`
}

func newGateway(t *testing.T, handlers map[string]func(params []json.RawMessage) (interface{}, *RPCError)) Client {
	r := mux.NewRouter()
	r.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		var rpcReq gatewayRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&rpcReq))

		handler, ok := handlers[rpcReq.Method]
		require.True(t, ok, "unexpected method %s", rpcReq.Method)

		result, rpcErr := handler(rpcReq.Params)
		resp := map[string]interface{}{"jsonrpc": "2.0", "id": rpcReq.Id, "result": result}
		if rpcErr != nil {
			resp["error"] = rpcErr
		}
		_ = json.NewEncoder(w).Encode(resp)
	}).Methods(http.MethodPost)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL+"/", 5, false)
	require.NoError(t, err)
	return NewLedgerService(NewProvider(client))
}

func viewMethod(t *testing.T, params []json.RawMessage) viewCall {
	require.Len(t, params, 1)
	var call viewCall
	require.NoError(t, json.Unmarshal(params[0], &call))
	return call
}

func TestSimulate(t *testing.T) {
	client := newGateway(t, map[string]func([]json.RawMessage) (interface{}, *RPCError){
		"simulateGroup": func(params []json.RawMessage) (interface{}, *RPCError) {
			require.Len(t, params, 1)
			return map[string]interface{}{"success": true, "estimatedFee": 4000, "txns": [][]byte{[]byte("a"), []byte("b")}}, nil
		},
	})

	sender := types.Address{9}.String()
	g, err := txn.Build(sender, []txn.Operation{txn.DeleteListing{MarketplaceId: 1, ListingId: 2}}, txn.Options{})
	require.NoError(t, err)

	sim, err := client.Simulate(context.Background(), g)
	require.NoError(t, err)
	assert.True(t, sim.Success)
	assert.Equal(t, uint64(4000), sim.EstimatedFee)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b")}, sim.Unsigned)
}

func TestAccountInfo(t *testing.T) {
	client := newGateway(t, map[string]func([]json.RawMessage) (interface{}, *RPCError){
		"accountInformation": func(params []json.RawMessage) (interface{}, *RPCError) {
			return map[string]interface{}{"address": "X", "amount": 250000, "min-balance": 100000}, nil
		},
	})

	info, err := client.AccountInfo(context.Background(), "X")
	require.NoError(t, err)
	assert.Equal(t, uint64(150000), info.Available())
}

func TestViews(t *testing.T) {
	client := newGateway(t, map[string]func([]json.RawMessage) (interface{}, *RPCError){
		"callView": func(params []json.RawMessage) (interface{}, *RPCError) {
			call := viewMethod(t, params)
			switch call.Method {
			case viewListingByIndex:
				if call.Args[0].(float64) == 7 {
					return map[string]interface{}{"listingId": 7, "price": 10}, nil
				}
				return nil, nil
			case viewHasBalance:
				return call.Args[0] == "HOLDER", nil
			case viewBalanceOf:
				return "123456789", nil
			case viewManager:
				return "MANAGER", nil
			}
			return nil, &RPCError{Code: -32601, Message: "unknown view"}
		},
	})
	ctx := context.Background()

	exists, err := client.ListingByIndex(ctx, 1, 7)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = client.ListingByIndex(ctx, 1, 8)
	require.NoError(t, err)
	assert.False(t, exists)

	has, err := client.HasBalance(ctx, 302190, "HOLDER")
	require.NoError(t, err)
	assert.True(t, has)

	balance, err := client.BalanceOf(ctx, 302190, "HOLDER")
	require.NoError(t, err)
	assert.Equal(t, uint64(123456789), balance)

	manager, err := client.Manager(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "MANAGER", manager)
}

func TestRPCErrorIsReturned(t *testing.T) {
	client := newGateway(t, map[string]func([]json.RawMessage) (interface{}, *RPCError){
		"sendRawGroup": func(params []json.RawMessage) (interface{}, *RPCError) {
			return nil, &RPCError{Code: -32000, Message: "overspend"}
		},
	})

	_, err := client.Submit(context.Background(), [][]byte{[]byte("signed")})
	require.Error(t, err)
	assert.Equal(t, "-32000:overspend", err.Error())
}

func TestSubmitterRequiresSimulation(t *testing.T) {
	s := NewSubmitter(nil, nil)

	_, err := s.SignAndSubmit(context.Background(), &txn.Group{})
	assert.Error(t, err)
}

func TestRemoteSigner(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/sign", func(w http.ResponseWriter, req *http.Request) {
		var body signRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		signed := make([][]byte, len(body.Txns))
		for i, tx := range body.Txns {
			signed[i] = append([]byte("sig:"), tx...)
		}
		_ = json.NewEncoder(w).Encode(signResponse{Signed: signed})
	}).Methods(http.MethodPost)
	srv := httptest.NewServer(r)
	defer srv.Close()

	signer, err := NewRemoteSigner(srv.URL, 5)
	require.NoError(t, err)

	signed, err := signer.Sign(context.Background(), "SENDER", [][]byte{[]byte("a")})
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("sig:a")}, signed)
}
