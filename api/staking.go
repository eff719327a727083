// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/runtime"
	"github.com/meridianchain/meridian/solo"
	"github.com/meridianchain/meridian/staking"
	"github.com/meridianchain/meridian/staking/reverts"
)

// EpochView is the JSON presentation of an epoch descriptor.
type EpochView struct {
	Index      uint64 `json:"index"`
	RewardPool uint64 `json:"rewardPool"`
	StartTime  uint64 `json:"startTime"`
	Duration   uint64 `json:"duration"`
}

// ManagerView is the JSON presentation of the staking manager.
type ManagerView struct {
	Authority   meridian.Address `json:"authority"`
	StakeVault  meridian.Address `json:"stakeVault"`
	RewardVault meridian.Address `json:"rewardVault"`
	TotalStaked uint64           `json:"totalStaked"`
	Epoch       EpochView        `json:"epoch"`
}

// StakerView is the JSON presentation of a user stake record. Pending
// rewards are projected through all closed epochs.
type StakerView struct {
	Owner            meridian.Address `json:"owner"`
	StakedAmount     uint64           `json:"stakedAmount"`
	PendingRewards   uint64           `json:"pendingRewards"`
	LastSettledEpoch uint64           `json:"lastSettledEpoch"`
}

// CallRequest submits one program call. The declared caller is treated as
// the signer: solo hosts simulate signatures.
type CallRequest struct {
	Op          string           `json:"op"`
	Caller      meridian.Address `json:"caller"`
	Amount      uint64           `json:"amount,omitempty"`
	RewardPool  uint64           `json:"rewardPool,omitempty"`
	Duration    uint64           `json:"duration,omitempty"`
	StakeVault  meridian.Address `json:"stakeVault,omitempty"`
	RewardVault meridian.Address `json:"rewardVault,omitempty"`
}

// CallResponse reports the outcome of a submitted call.
type CallResponse struct {
	Op           string `json:"op"`
	StakedAmount uint64 `json:"stakedAmount,omitempty"`
	Rewards      uint64 `json:"rewards,omitempty"`
}

// Staking mounts program endpoints over a solo host.
type Staking struct {
	host *solo.Solo
}

// NewStaking creates the staking endpoint group.
func NewStaking(host *solo.Solo) *Staking {
	return &Staking{host: host}
}

// Mount attaches the endpoints to the router under the given path prefix.
func (s *Staking) Mount(router *mux.Router, pathPrefix string) {
	sub := router.PathPrefix(pathPrefix).Subrouter()
	sub.Path("/manager").Methods(http.MethodGet).HandlerFunc(WrapHandlerFunc(s.handleGetManager))
	sub.Path("/stakers/{address}").Methods(http.MethodGet).HandlerFunc(WrapHandlerFunc(s.handleGetStaker))
	sub.Path("/calls").Methods(http.MethodPost).HandlerFunc(WrapHandlerFunc(s.handlePostCall))
}

func (s *Staking) handleGetManager(w http.ResponseWriter, _ *http.Request) error {
	m, err := s.host.Manager()
	if err != nil {
		if reverts.IsRevertErr(err) {
			return HTTPError(err, http.StatusNotFound)
		}
		return err
	}
	return WriteJSON(w, &ManagerView{
		Authority:   m.Authority,
		StakeVault:  m.StakeVault,
		RewardVault: m.RewardVault,
		TotalStaked: m.TotalStaked,
		Epoch: EpochView{
			Index:      m.Epoch.Index,
			RewardPool: m.Epoch.RewardPool,
			StartTime:  m.Epoch.StartTime,
			Duration:   m.Epoch.Duration,
		},
	})
}

func (s *Staking) handleGetStaker(w http.ResponseWriter, req *http.Request) error {
	addr, err := meridian.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return BadRequest(errors.WithMessage(err, "address"))
	}
	u, err := s.host.UserInfo(*addr)
	if err != nil {
		if errors.Is(err, staking.ErrAccountNotFound) {
			return HTTPError(err, http.StatusNotFound)
		}
		if reverts.IsRevertErr(err) {
			return BadRequest(err)
		}
		return err
	}
	return WriteJSON(w, &StakerView{
		Owner:            u.Owner,
		StakedAmount:     u.StakedAmount,
		PendingRewards:   u.PendingRewards,
		LastSettledEpoch: u.LastSettledEpoch,
	})
}

func (s *Staking) handlePostCall(w http.ResponseWriter, req *http.Request) error {
	var callReq CallRequest
	if err := json.NewDecoder(req.Body).Decode(&callReq); err != nil {
		return BadRequest(errors.WithMessage(err, "body"))
	}
	call, err := buildCall(&callReq)
	if err != nil {
		return BadRequest(err)
	}

	receipt, err := s.host.Execute(call, callReq.Caller)
	if err != nil {
		if reverts.IsRevertErr(err) {
			return BadRequest(err)
		}
		return err
	}
	return WriteJSON(w, &CallResponse{
		Op:           receipt.Op.String(),
		StakedAmount: receipt.StakedAmount,
		Rewards:      receipt.Rewards,
	})
}

func buildCall(req *CallRequest) (*runtime.Call, error) {
	op, ok := runtime.ParseOp(req.Op)
	if !ok {
		return nil, errors.Errorf("unknown op %q", req.Op)
	}
	call := &runtime.Call{Op: op, Caller: req.Caller}
	switch op {
	case runtime.OpInitialize:
		call.Payload = runtime.InitializePayload(req.StakeVault, req.RewardVault)
	case runtime.OpDeposit, runtime.OpUnstake:
		call.Payload = runtime.AmountPayload(req.Amount)
	case runtime.OpStartEpoch:
		call.Payload = runtime.EpochPayload(req.RewardPool, req.Duration)
	}
	return call, nil
}
