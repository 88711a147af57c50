// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package transport

// Names
const (
	ManualRedirectsCounterName = "drm_license_manual_redirects_total"
	ManualRedirectsCounterHelp = "Counter for the number of 307/308 redirects followed while posting key requests."
)
