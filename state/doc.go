// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages host accounts and contract storage.
// It follows the flow as below:
//
//	[ revertable state ]
//	         |
//	  [ stacked map ] -> [ journal ] -> [ stage ] -> [ kv batch ]
//	         |
//	  [ kv store (read) ]
//
// A State is short-lived: one per executed transaction. Everything a
// transaction touches is committed in a single batch or not at all.
package state
