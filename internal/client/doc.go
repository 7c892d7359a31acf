// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the sync client process runtime.
//
// It wires the request layer, the crypto engine, the coordinators of
// package service, the watch supervisor and the notification channel into
// a single process lifecycle, and forwards every produced event to an
// [EventLog].
package client
