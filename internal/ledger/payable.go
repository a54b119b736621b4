package ledger

import "github.com/mauv0809/court-ledger/internal/session"

// Payable returns what the participant owes for the session. A positive value
// is owed to the club, a negative value is owed to the participant.
//
// Masters pay (losses - wins) * reward. Temporaries also pay their stored fee.
func Payable(p session.Participant, perMatchReward float64) float64 {
	net := float64(p.Losses-p.Wins) * perMatchReward
	if p.IsMaster() {
		return net
	}
	return p.Fee + net
}

// PayableWithServiceFee computes the payable using a session-wide service fee
// instead of the participant's stored fee.
//
// Deprecated: the participant's own Fee is authoritative. Use Payable.
func PayableWithServiceFee(p session.Participant, serviceFee, perMatchReward float64) float64 {
	p.Fee = serviceFee
	return Payable(p, perMatchReward)
}

// TotalReceivable sums the payables of all participants.
func TotalReceivable(participants []session.Participant, perMatchReward float64) float64 {
	var total float64
	for _, p := range participants {
		total += Payable(p, perMatchReward)
	}
	return total
}
