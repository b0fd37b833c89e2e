package consts

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

var AtomicBridgeInitiatorABI, _ = abi.JSON(strings.NewReader(`
[
  {
    "inputs": [
      {
        "internalType": "uint256",
        "name": "amount",
        "type": "uint256"
      },
      {
        "internalType": "bytes32",
        "name": "recipient",
        "type": "bytes32"
      },
      {
        "internalType": "bytes32",
        "name": "hashLock",
        "type": "bytes32"
      },
      {
        "internalType": "uint256",
        "name": "timeLock",
        "type": "uint256"
      }
    ],
    "name": "initiateBridgeTransfer",
    "outputs": [
      {
        "internalType": "bytes32",
        "name": "bridgeTransferId",
        "type": "bytes32"
      }
    ],
    "stateMutability": "payable",
    "type": "function"
  },
  {
    "inputs": [
      {
        "internalType": "bytes32",
        "name": "bridgeTransferId",
        "type": "bytes32"
      },
      {
        "internalType": "bytes32",
        "name": "preImage",
        "type": "bytes32"
      }
    ],
    "name": "completeBridgeTransfer",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      {
        "internalType": "bytes32",
        "name": "bridgeTransferId",
        "type": "bytes32"
      }
    ],
    "name": "refundBridgeTransfer",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      {
        "internalType": "bytes32",
        "name": "",
        "type": "bytes32"
      }
    ],
    "name": "bridgeTransfers",
    "outputs": [
      {
        "internalType": "address",
        "name": "originator",
        "type": "address"
      },
      {
        "internalType": "bytes32",
        "name": "recipient",
        "type": "bytes32"
      },
      {
        "internalType": "uint256",
        "name": "amount",
        "type": "uint256"
      },
      {
        "internalType": "bytes32",
        "name": "hashLock",
        "type": "bytes32"
      },
      {
        "internalType": "uint256",
        "name": "timeLock",
        "type": "uint256"
      },
      {
        "internalType": "uint8",
        "name": "state",
        "type": "uint8"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "anonymous": false,
    "inputs": [
      {
        "internalType": "bytes32",
        "name": "bridgeTransferId",
        "type": "bytes32",
        "indexed": true
      },
      {
        "internalType": "address",
        "name": "originator",
        "type": "address",
        "indexed": true
      },
      {
        "internalType": "bytes32",
        "name": "recipient",
        "type": "bytes32",
        "indexed": true
      },
      {
        "internalType": "uint256",
        "name": "amount",
        "type": "uint256",
        "indexed": false
      },
      {
        "internalType": "bytes32",
        "name": "hashLock",
        "type": "bytes32",
        "indexed": false
      },
      {
        "internalType": "uint256",
        "name": "timeLock",
        "type": "uint256",
        "indexed": false
      }
    ],
    "name": "BridgeTransferInitiated",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {
        "internalType": "bytes32",
        "name": "bridgeTransferId",
        "type": "bytes32",
        "indexed": true
      },
      {
        "internalType": "bytes32",
        "name": "preImage",
        "type": "bytes32",
        "indexed": false
      }
    ],
    "name": "BridgeTransferCompleted",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {
        "internalType": "bytes32",
        "name": "bridgeTransferId",
        "type": "bytes32",
        "indexed": true
      }
    ],
    "name": "BridgeTransferRefunded",
    "type": "event"
  }
]
`))

var AtomicBridgeCounterpartyABI, _ = abi.JSON(strings.NewReader(`
[
  {
    "inputs": [
      {
        "internalType": "bytes32",
        "name": "originator",
        "type": "bytes32"
      },
      {
        "internalType": "bytes32",
        "name": "bridgeTransferId",
        "type": "bytes32"
      },
      {
        "internalType": "bytes32",
        "name": "hashLock",
        "type": "bytes32"
      },
      {
        "internalType": "uint256",
        "name": "timeLock",
        "type": "uint256"
      },
      {
        "internalType": "address",
        "name": "recipient",
        "type": "address"
      },
      {
        "internalType": "uint256",
        "name": "amount",
        "type": "uint256"
      }
    ],
    "name": "lockBridgeTransfer",
    "outputs": [
      {
        "internalType": "bool",
        "name": "",
        "type": "bool"
      }
    ],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      {
        "internalType": "bytes32",
        "name": "bridgeTransferId",
        "type": "bytes32"
      },
      {
        "internalType": "bytes32",
        "name": "preImage",
        "type": "bytes32"
      }
    ],
    "name": "completeBridgeTransfer",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      {
        "internalType": "bytes32",
        "name": "bridgeTransferId",
        "type": "bytes32"
      }
    ],
    "name": "abortBridgeTransfer",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      {
        "internalType": "bytes32",
        "name": "",
        "type": "bytes32"
      }
    ],
    "name": "bridgeTransfers",
    "outputs": [
      {
        "internalType": "bytes32",
        "name": "originator",
        "type": "bytes32"
      },
      {
        "internalType": "address",
        "name": "recipient",
        "type": "address"
      },
      {
        "internalType": "uint256",
        "name": "amount",
        "type": "uint256"
      },
      {
        "internalType": "bytes32",
        "name": "hashLock",
        "type": "bytes32"
      },
      {
        "internalType": "uint256",
        "name": "timeLock",
        "type": "uint256"
      },
      {
        "internalType": "uint8",
        "name": "state",
        "type": "uint8"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "anonymous": false,
    "inputs": [
      {
        "internalType": "bytes32",
        "name": "bridgeTransferId",
        "type": "bytes32",
        "indexed": true
      },
      {
        "internalType": "bytes32",
        "name": "originator",
        "type": "bytes32",
        "indexed": true
      },
      {
        "internalType": "address",
        "name": "recipient",
        "type": "address",
        "indexed": true
      },
      {
        "internalType": "uint256",
        "name": "amount",
        "type": "uint256",
        "indexed": false
      },
      {
        "internalType": "bytes32",
        "name": "hashLock",
        "type": "bytes32",
        "indexed": false
      },
      {
        "internalType": "uint256",
        "name": "timeLock",
        "type": "uint256",
        "indexed": false
      }
    ],
    "name": "BridgeTransferLocked",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {
        "internalType": "bytes32",
        "name": "bridgeTransferId",
        "type": "bytes32",
        "indexed": true
      },
      {
        "internalType": "bytes32",
        "name": "preImage",
        "type": "bytes32",
        "indexed": false
      }
    ],
    "name": "BridgeTransferCompleted",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {
        "internalType": "bytes32",
        "name": "bridgeTransferId",
        "type": "bytes32",
        "indexed": true
      }
    ],
    "name": "BridgeTransferAborted",
    "type": "event"
  }
]
`))
