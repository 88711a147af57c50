// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package drmlicense

// Names
const (
	RequestsTotalCounterName = "drm_license_requests_total"
	RequestsTotalCounterHelp = "Counter for the number of key and provisioning requests (and their outcomes)."
)

// Labels
const (
	TypeLabel    = "type"
	OutcomeLabel = "outcome"
)

// Label Values
const (
	KeyRequestType       = "key"
	ProvisionRequestType = "provision"
	SuccessOutcome       = "success"
)

// Operations, also used as TypeLabel values.
const (
	opNew       = "new"
	opKey       = KeyRequestType
	opProvision = ProvisionRequestType
)
